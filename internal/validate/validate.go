// Package validate runs editorial checks over a loaded catalog. None of the
// checks affect rendering; they exist to catch authoring defects early.
package validate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
	"religionatlas/internal/content"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDuplicateSlug        = "duplicate_slug"
	codeMissingHeading       = "missing_heading"
	codeUnknownCollection    = "unknown_collection"
	codeUnmappedField        = "unmapped_field"
	codeInvalidISBN          = "invalid_isbn"
	codeInvalidURL           = "invalid_url"
	codeBrokenCrossLink      = "broken_cross_link"
	codeMissingLocaleVariant = "missing_locale_variant"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Page     string
	Field    string
	FilePath string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue has error severity.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func Run(ctx context.Context, cfg *config.ProjectConfig, schema *config.Schema, cat *catalog.Catalog) (*Report, error) {
	if cat == nil {
		return nil, fmt.Errorf("validate: catalog is required")
	}
	if schema == nil {
		schema = config.DefaultSchema()
	}

	report := &Report{}
	for _, dup := range cat.Duplicates {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     codeDuplicateSlug,
			Message:  fmt.Sprintf("page path %s is defined by %s", dup.Path, strings.Join(dup.Files, ", ")),
			Page:     dup.Path,
		})
	}

	var locales []string
	if cfg != nil {
		locales = cfg.Site.Locales
	}

	for _, page := range cat.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := &checker{page: page, schema: schema, cat: cat, cfg: cfg}
		c.collections()
		c.links()
		c.locales(locales)
		report.Issues = append(report.Issues, c.issues...)
	}

	return report, nil
}

type checker struct {
	page   *content.Page
	schema *config.Schema
	cat    *catalog.Catalog
	cfg    *config.ProjectConfig
	issues []Issue
}

func (c *checker) add(severity Severity, code, field, message string) {
	c.issues = append(c.issues, Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		Page:     c.page.Path(),
		Field:    field,
		FilePath: c.page.SourceFile,
	})
}

func (c *checker) collections() {
	for _, coll := range c.page.Collections {
		ct, ok := c.schema.CollectionTypeByName(coll.Name)
		if !ok {
			c.add(SeverityWarn, codeUnknownCollection, coll.Name,
				fmt.Sprintf("collection %s is not in the schema; its fields are rendered by shape", coll.Name))
			continue
		}
		for i, entry := range coll.Entries {
			c.entry(fmt.Sprintf("%s[%d]", coll.Name, i), entry, ct.Fields, ct.HeadingField())
		}
	}
}

func (c *checker) entry(at string, e content.Entry, fields []config.Field, heading string) {
	if heading != "" && strings.TrimSpace(e.Text(heading)) == "" {
		c.add(SeverityError, codeMissingHeading, at, fmt.Sprintf("entry has no %s", heading))
	}

	for _, f := range e.Fields {
		fieldAt := at + "." + f.Name
		if f.Name == "isbn" && f.Value.Kind == content.KindText && strings.TrimSpace(f.Value.Text) != "" {
			if !ValidISBN(f.Value.Text) {
				c.add(SeverityWarn, codeInvalidISBN, fieldAt, fmt.Sprintf("invalid ISBN: %s", f.Value.Text))
			}
		}

		sf, ok := fieldByName(fields, f.Name)
		if !ok {
			if !f.Value.IsEmpty() {
				c.add(SeverityWarn, codeUnmappedField, fieldAt, fmt.Sprintf("field %s is not in the schema and will not be shown", f.Name))
			}
			continue
		}

		switch sf.Kind {
		case config.KindRecord:
			// A record made only of lists decodes as groups.
			if f.Value.Kind == content.KindRecord || f.Value.Kind == content.KindGroups {
				c.entry(fieldAt, content.Entry{Fields: f.Value.Fields()}, sf.Fields, "")
			}
		case config.KindEntries:
			if f.Value.Kind == content.KindEntries {
				for i, sub := range f.Value.Entries {
					c.entry(fmt.Sprintf("%s[%d]", fieldAt, i), sub, sf.Fields, sf.HeadingField())
				}
			}
		case config.KindLink:
			if f.Value.Kind == content.KindText && strings.TrimSpace(f.Value.Text) != "" && !ValidURL(f.Value.Text) {
				c.add(SeverityError, codeInvalidURL, fieldAt, fmt.Sprintf("invalid url: %s", f.Value.Text))
			}
		}
	}
}

func (c *checker) links() {
	for i, link := range c.page.Links {
		at := fmt.Sprintf("links[%d]", i)
		target := strings.TrimSpace(link.Path)
		if isAbsolute(target) {
			if !ValidURL(target) {
				c.add(SeverityError, codeInvalidURL, at, fmt.Sprintf("invalid url: %s", target))
			}
			continue
		}
		if cut := strings.IndexAny(target, "#?"); cut >= 0 {
			target = target[:cut]
		}
		target = strings.Trim(target, "/")
		if c.linkTargetExists(target) {
			continue
		}
		c.add(SeverityWarn, codeBrokenCrossLink, at, fmt.Sprintf("%s links to %s, which is not a known page", link.Label, link.Path))
	}
}

func (c *checker) linkTargetExists(target string) bool {
	if target == "" || c.cat.Has(target) {
		return true
	}
	_, ok := c.cfg.SourceByName(target)
	return ok
}

func (c *checker) locales(locales []string) {
	for _, locale := range locales {
		if _, ok := c.page.MetaVariant(locale); ok {
			continue
		}
		c.add(SeverityWarn, codeMissingLocaleVariant, "meta."+locale,
			fmt.Sprintf("no %s metadata; a fallback will be used", locale))
	}
}

func fieldByName(fields []config.Field, name string) (config.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return config.Field{}, false
}

func isAbsolute(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "mailto:")
}

// ValidURL accepts absolute http(s) URLs with a host and mailto addresses.
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "mailto":
		return u.Opaque != ""
	default:
		return false
	}
}

// ValidISBN checks the length and check digit of an ISBN-10 or ISBN-13.
// Hyphens and spaces are ignored.
func ValidISBN(raw string) bool {
	digits := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))
	switch len(digits) {
	case 10:
		sum := 0
		for i, r := range digits {
			var d int
			switch {
			case r >= '0' && r <= '9':
				d = int(r - '0')
			case (r == 'X' || r == 'x') && i == 9:
				d = 10
			default:
				return false
			}
			sum += (10 - i) * d
		}
		return sum%11 == 0
	case 13:
		sum := 0
		for i, r := range digits {
			if r < '0' || r > '9' {
				return false
			}
			d := int(r - '0')
			if i%2 == 1 {
				d *= 3
			}
			sum += d
		}
		return sum%10 == 0
	default:
		return false
	}
}
