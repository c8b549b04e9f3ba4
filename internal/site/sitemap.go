package site

import (
	"encoding/xml"
	"fmt"
	"io"

	"religionatlas/internal/meta"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc   string        `xml:"loc"`
	Links []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// WriteSitemap writes sitemap.xml with one url per page and locale, each
// listing its alternates in the other locales.
func (b *Builder) WriteSitemap(w io.Writer) error {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}

	add := func(rel string) {
		var links []sitemapLink
		for _, loc := range b.locales {
			links = append(links, sitemapLink{
				Rel:      "alternate",
				Hreflang: loc,
				Href:     b.absolute(meta.LocalePath(loc, b.defaultLocale, rel)),
			})
		}
		for _, loc := range b.locales {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:   b.absolute(meta.LocalePath(loc, b.defaultLocale, rel)),
				Links: links,
			})
		}
	}

	add("")
	for _, page := range b.catalog.Pages {
		add(page.Path())
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
