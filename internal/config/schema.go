package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// Field kinds understood by the renderer.
const (
	KindHeading    = "heading"
	KindAlternates = "alternates"
	KindText       = "text"
	KindLine       = "line"
	KindLink       = "link"
	KindBadge      = "badge"
	KindList       = "list"
	KindGroups     = "groups"
	KindRecord     = "record"
	KindEntries    = "entries"
)

var knownKinds = map[string]struct{}{
	KindHeading:    {},
	KindAlternates: {},
	KindText:       {},
	KindLine:       {},
	KindLink:       {},
	KindBadge:      {},
	KindList:       {},
	KindGroups:     {},
	KindRecord:     {},
	KindEntries:    {},
}

// Schema is the display-field map shared by every topic page.
type Schema struct {
	Version     int              `yaml:"version"`
	Collections []CollectionType `yaml:"collections"`

	collectionIndex map[string]*CollectionType
}

type CollectionType struct {
	Name   string  `yaml:"name"`
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

type Field struct {
	Name   string  `yaml:"name"`
	Label  string  `yaml:"label"`
	Kind   string  `yaml:"kind"`
	Fields []Field `yaml:"fields"`
}

func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	if err := validateSchema(&schema); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	schema.collectionIndex = make(map[string]*CollectionType)
	for i := range schema.Collections {
		ct := &schema.Collections[i]
		schema.collectionIndex[strings.ToLower(ct.Name)] = ct
	}

	return &schema, nil
}

// SchemaTemplate returns the raw bytes of an embedded schema template.
func SchemaTemplate(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile("schemas/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown schema template %q", name)
	}
	return data, nil
}

// DefaultSchema is the embedded schema covering the common topic collections.
func DefaultSchema() *Schema {
	data, err := SchemaTemplate("default")
	if err != nil {
		panic(err)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		panic(fmt.Sprintf("embedded default schema: %v", err))
	}
	return schema
}

func validateSchema(s *Schema) error {
	if s.Version != 1 {
		return fmt.Errorf("unsupported version: %d", s.Version)
	}
	if len(s.Collections) == 0 {
		return fmt.Errorf("at least one collection is required")
	}

	names := make(map[string]struct{})
	for i, ct := range s.Collections {
		if strings.TrimSpace(ct.Name) == "" {
			return fmt.Errorf("collection %d name is required", i)
		}
		key := strings.ToLower(ct.Name)
		if _, exists := names[key]; exists {
			return fmt.Errorf("duplicate collection name: %s", ct.Name)
		}
		names[key] = struct{}{}

		if err := validateFields(ct.Name, ct.Fields, true); err != nil {
			return err
		}
	}

	return nil
}

func validateFields(owner string, fields []Field, requireHeading bool) error {
	if len(fields) == 0 {
		return fmt.Errorf("%s has no fields", owner)
	}

	seen := make(map[string]struct{})
	headings := 0
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%s has field with empty name", owner)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%s has duplicate field: %s", owner, name)
		}
		seen[name] = struct{}{}

		if _, ok := knownKinds[field.Kind]; !ok {
			return fmt.Errorf("%s field %s has unknown kind %q", owner, name, field.Kind)
		}
		if field.Kind == KindHeading {
			headings++
		}

		nested := field.Kind == KindRecord || field.Kind == KindEntries
		if len(field.Fields) > 0 && !nested {
			return fmt.Errorf("%s field %s of kind %s cannot have nested fields", owner, name, field.Kind)
		}
		if nested {
			if err := validateFields(owner+"."+name, field.Fields, field.Kind == KindEntries); err != nil {
				return err
			}
		}
	}

	if requireHeading && headings != 1 {
		return fmt.Errorf("%s must declare exactly one heading field, found %d", owner, headings)
	}
	return nil
}

func (s *Schema) CollectionTypeByName(name string) (*CollectionType, bool) {
	if s == nil {
		return nil, false
	}
	ct, ok := s.collectionIndex[strings.ToLower(name)]
	return ct, ok
}

func (s *Schema) IsKnownCollection(name string) bool {
	_, ok := s.CollectionTypeByName(name)
	return ok
}

// HeadingField returns the name of the heading field, if any.
func (ct *CollectionType) HeadingField() string {
	if ct == nil {
		return ""
	}
	return headingOf(ct.Fields)
}

// HeadingField returns the heading field of a nested entries field.
func (f Field) HeadingField() string {
	return headingOf(f.Fields)
}

func headingOf(fields []Field) string {
	for _, field := range fields {
		if field.Kind == KindHeading {
			return field.Name
		}
	}
	return ""
}

// FieldByName looks up a top-level field of the collection type.
func (ct *CollectionType) FieldByName(name string) (*Field, bool) {
	if ct == nil {
		return nil, false
	}
	for i := range ct.Fields {
		if ct.Fields[i].Name == name {
			return &ct.Fields[i], true
		}
	}
	return nil, false
}
