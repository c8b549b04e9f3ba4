package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"religionatlas/internal/meta"
	"religionatlas/internal/nav"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Templates are parsed once and only executed afterwards, which is safe
// for concurrent use.
var templates = template.Must(template.New("base").Funcs(template.FuncMap{
	"join": strings.Join,
	// Only goldmark output reaches this; raw HTML in markdown is omitted.
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"span":    span,
}).ParseFS(templateFS, "templates/*.gohtml"))

// Document is everything one topic page needs.
type Document struct {
	Lang        string
	SiteTitle   string
	Root        string
	Meta        meta.Metadata
	Breadcrumbs []nav.Crumb
	Locales     []LocaleLink
	Tree        Tree
}

// LocaleLink points at the same page in another locale.
type LocaleLink struct {
	Locale  string
	Href    string
	Current bool
}

// Index is the topic catalogue page of one locale.
type Index struct {
	Lang      string
	SiteTitle string
	Root      string
	Meta      meta.Metadata
	Locales   []LocaleLink
	Groups    []IndexGroup
}

// IndexGroup lists the topics of one source, in build order.
type IndexGroup struct {
	Title  string
	Topics []IndexTopic
}

type IndexTopic struct {
	Title       string
	Href        string
	Description string
	Tags        []string
}

// WriteHTML writes a complete topic page. The same document always yields
// the same bytes.
func WriteHTML(w io.Writer, doc Document) error {
	if err := templates.ExecuteTemplate(w, "page", doc); err != nil {
		return fmt.Errorf("rendering page %q: %w", doc.Tree.Title, err)
	}
	return nil
}

func WriteIndex(w io.Writer, idx Index) error {
	if err := templates.ExecuteTemplate(w, "index", idx); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	return nil
}
