package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSchema(t *testing.T) {
	t.Run("valid schema loads", func(t *testing.T) {
		schema, err := LoadSchema(filepath.Join("testdata", "valid_schema.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !schema.IsKnownCollection("historicalPeriods") {
			t.Fatalf("expected historicalPeriods to be known")
		}
	})

	t.Run("missing collections", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections: []\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate collection names", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields: [{name: name, kind: heading}]\n  - name: Schools\n    fields: [{name: name, kind: heading}]\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown field kind", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields:\n      - {name: name, kind: heading}\n      - {name: founder, kind: carousel}\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate field names", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields:\n      - {name: name, kind: heading}\n      - {name: name, kind: text}\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing heading", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields:\n      - {name: description, kind: text}\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("nested fields on list", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields:\n      - {name: name, kind: heading}\n      - name: texts\n        kind: list\n        fields: [{name: title, kind: heading}]\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("nested entries need a heading", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\ncollections:\n  - name: schools\n    fields:\n      - {name: name, kind: heading}\n      - name: texts\n        kind: entries\n        fields: [{name: summary, kind: text}]\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestSchemaHelpers(t *testing.T) {
	schema, err := LoadSchema(filepath.Join("testdata", "valid_schema.yaml"))
	if err != nil {
		t.Fatalf("loading schema: %v", err)
	}

	t.Run("CollectionTypeByName case-insensitive", func(t *testing.T) {
		if _, ok := schema.CollectionTypeByName("KEYFIGURES"); !ok {
			t.Fatalf("expected to find keyFigures collection")
		}
	})

	t.Run("IsKnownCollection", func(t *testing.T) {
		if schema.IsKnownCollection("miracles") {
			t.Fatalf("expected miracles to be unknown")
		}
	})

	t.Run("HeadingField", func(t *testing.T) {
		ct, _ := schema.CollectionTypeByName("keyFigures")
		if got := ct.HeadingField(); got != "name" {
			t.Fatalf("expected name, got %q", got)
		}
		bio, ok := ct.FieldByName("biography")
		if !ok {
			t.Fatalf("expected biography field")
		}
		if got := bio.Fields[0].HeadingField(); got != "title" {
			t.Fatalf("expected title, got %q", got)
		}
	})

	t.Run("nil schema", func(t *testing.T) {
		var s *Schema
		if s.IsKnownCollection("schools") {
			t.Fatalf("expected nil schema to know nothing")
		}
	})
}

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()
	for _, name := range []string{"historicalPeriods", "keyFigures", "schools", "textualTraditions", "practices", "resources"} {
		if !schema.IsKnownCollection(name) {
			t.Fatalf("expected default schema to declare %s", name)
		}
	}

	if _, err := SchemaTemplate("missing"); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func writeTempSchema(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp schema: %v", err)
	}
	return path
}
