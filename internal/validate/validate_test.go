package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
	"religionatlas/internal/content"
	"religionatlas/internal/parser"
)

const testConfig = `project: atlas
version: 1
site:
  default_locale: en
  locales: [en, hi]
sources:
  - name: buddhism
    paths: [./content/buddhism]
  - name: hinduism
    paths: [./content/hinduism]
`

const cleanPage = `---
title: Early Buddhism
source: buddhism
meta:
  en:
    title: Early Buddhism
  hi:
    title: प्रारंभिक बौद्ध धर्म
collections:
  resources:
    - title: What the Buddha Taught
      isbn: "978-0-306-40615-7"
      url: https://example.org/book
links:
  - label: Advaita
    path: hinduism/advaita
  - label: Hinduism
    path: /hinduism/
  - label: Wikipedia
    path: https://en.wikipedia.org/wiki/Buddhism
---
Intro.
`

const advaitaPage = `---
title: Advaita
source: hinduism
meta:
  en:
    title: Advaita
  hi:
    title: अद्वैत
---
Non-dualism.
`

func TestRun_CleanCatalog(t *testing.T) {
	report := runPages(t, cleanPage, advaitaPage)
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
	if report.HasErrors() {
		t.Fatalf("expected no errors")
	}
}

func TestRun_MissingHeading(t *testing.T) {
	report := runPages(t, `---
title: Broken
meta:
  en: {title: Broken}
  hi: {title: Broken}
collections:
  keyFigures:
    - dates: 3rd century BCE
      biography:
        majorWorks:
          - description: untitled
---
`)
	issues := issuesWithCode(report.Issues, codeMissingHeading)
	if len(issues) != 2 {
		t.Fatalf("expected 2 missing heading issues, got %+v", issues)
	}
	if issues[1].Field != "keyFigures[0].biography.majorWorks[0]" {
		t.Fatalf("unexpected field path: %s", issues[1].Field)
	}
	if !report.HasErrors() {
		t.Fatalf("expected report to have errors")
	}
}

func TestRun_SchemaMismatches(t *testing.T) {
	report := runPages(t, `---
title: Mixed
meta:
  en: {title: Mixed}
  hi: {title: Mixed}
collections:
  festivals:
    - name: Vesak
  schools:
    - name: Theravāda
      patron: Aśoka
      notes: ""
---
`)

	t.Run("unknown collection", func(t *testing.T) {
		issues := issuesWithCode(report.Issues, codeUnknownCollection)
		if len(issues) != 1 || issues[0].Field != "festivals" {
			t.Fatalf("unexpected issues: %+v", issues)
		}
		if issues[0].Severity != SeverityWarn {
			t.Fatalf("expected warning, got %s", issues[0].Severity)
		}
	})

	t.Run("unmapped field", func(t *testing.T) {
		issues := issuesWithCode(report.Issues, codeUnmappedField)
		if len(issues) != 1 || issues[0].Field != "schools[0].patron" {
			t.Fatalf("unexpected issues: %+v", issues)
		}
	})
}

func TestRun_ListOnlyRecord(t *testing.T) {
	report := runPages(t, `---
title: Aśoka
meta:
  en: {title: Aśoka}
  hi: {title: Aśoka}
collections:
  keyFigures:
    - name: Aśoka
      biography:
        keyEvents: [Kalinga war]
        patron: [Moggaliputta Tissa]
---
`)

	issues := issuesWithCode(report.Issues, codeUnmappedField)
	if len(issues) != 1 || issues[0].Field != "keyFigures[0].biography.patron" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestRun_InvalidValues(t *testing.T) {
	report := runPages(t, `---
title: Reading
meta:
  en: {title: Reading}
  hi: {title: Reading}
collections:
  resources:
    - title: Book
      isbn: "978-0791403611"
      url: not a url
links:
  - label: Nowhere
    path: buddhism/nowhere#intro
  - label: Bad
    path: ftp://example.org/file
---
`)

	if got := issuesWithCode(report.Issues, codeInvalidISBN); len(got) != 1 {
		t.Fatalf("expected invalid isbn issue, got %+v", got)
	}
	if got := issuesWithCode(report.Issues, codeInvalidURL); len(got) != 2 {
		t.Fatalf("expected 2 invalid url issues, got %+v", got)
	}
	broken := issuesWithCode(report.Issues, codeBrokenCrossLink)
	if len(broken) != 1 || broken[0].Field != "links[0]" {
		t.Fatalf("unexpected broken link issues: %+v", broken)
	}
}

func TestRun_MissingLocaleVariant(t *testing.T) {
	report := runPages(t, `---
title: English Only
meta:
  en: {title: English Only}
---
`)
	issues := issuesWithCode(report.Issues, codeMissingLocaleVariant)
	if len(issues) != 1 || issues[0].Field != "meta.hi" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if report.HasErrors() {
		t.Fatalf("missing locale variant must not be an error")
	}
}

func TestRun_DuplicateSlug(t *testing.T) {
	cfg := loadConfig(t, testConfig)
	cat := &catalog.Catalog{
		Duplicates: []catalog.Duplicate{{
			Path:  "buddhism/early-buddhism",
			Files: []string{"a.md", "b.md"},
		}},
	}
	report, err := Run(context.Background(), cfg, config.DefaultSchema(), cat)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasIssueCode(report.Issues, codeDuplicateSlug) {
		t.Fatalf("expected duplicate slug issue")
	}
	if report.Count(SeverityError) != 1 {
		t.Fatalf("expected one error, got %d", report.Count(SeverityError))
	}
}

func TestRun_Cancelled(t *testing.T) {
	cfg := loadConfig(t, testConfig)
	cat := catalog.New(mustParse(t, advaitaPage))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, cfg, nil, cat); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestValidISBN(t *testing.T) {
	cases := map[string]bool{
		"978-0-306-40615-7": true,
		"9780306406157":     true,
		"0-306-40615-2":     true,
		"0 8044 2957 X":     true,
		"978-0791403611":    false,
		"0-306-40615-3":     false,
		"12345":             false,
		"978-0-306-4061A-7": false,
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			if got := ValidISBN(input); got != want {
				t.Fatalf("ValidISBN(%q) = %v, want %v", input, got, want)
			}
		})
	}
}

func TestValidURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.org/a": true,
		"http://example.org":    true,
		"mailto:editor@example": true,
		"example.org":           false,
		"https://":              false,
		"ftp://example.org":     false,
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			if got := ValidURL(input); got != want {
				t.Fatalf("ValidURL(%q) = %v, want %v", input, got, want)
			}
		})
	}
}

func runPages(t *testing.T, sources ...string) *Report {
	t.Helper()
	cfg := loadConfig(t, testConfig)
	pages := make([]*content.Page, 0, len(sources))
	for _, src := range sources {
		pages = append(pages, mustParse(t, src))
	}
	report, err := Run(context.Background(), cfg, config.DefaultSchema(), catalog.New(pages...))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return report
}

func mustParse(t *testing.T, src string) *content.Page {
	t.Helper()
	page, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return page
}

func issuesWithCode(issues []Issue, code string) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

func hasIssueCode(issues []Issue, code string) bool {
	return len(issuesWithCode(issues, code)) > 0
}

func loadConfig(t *testing.T, contents string) *config.ProjectConfig {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}
