// Package meta resolves the SEO metadata of a topic page for a locale.
package meta

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"religionatlas/internal/content"
)

const ogTypeArticle = "article"

type Image struct {
	URL string
	Alt string
}

type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	Locale      string
	SiteName    string
	Images      []Image
}

// Alternate is the same page in another configured locale.
type Alternate struct {
	Locale string
	URL    string
}

type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	Locale      string
	Alternates  []Alternate
	OpenGraph   OpenGraph
}

// Site is the site-wide input to metadata resolution.
type Site struct {
	Title         string
	BaseURL       string
	DefaultLocale string
	Locales       []string
	OGImage       string
}

// Provider resolves metadata for one page. It holds no mutable state and is
// safe for concurrent use.
type Provider struct {
	page *content.Page
	site Site

	defaultLocale string
	siteLocales   []string
	siteMatcher   language.Matcher

	variantIndex   []int
	variantMatcher language.Matcher
}

func NewProvider(page *content.Page, site Site) *Provider {
	p := &Provider{page: page, site: site}

	p.defaultLocale, p.siteLocales = SiteLocales(site.DefaultLocale, site.Locales)
	siteTags := make([]language.Tag, 0, len(p.siteLocales))
	for _, loc := range p.siteLocales {
		siteTags = append(siteTags, language.Make(loc))
	}
	p.siteMatcher = language.NewMatcher(siteTags)

	var variantTags []language.Tag
	for i, v := range page.Meta {
		tag, err := language.Parse(v.Locale)
		if err != nil {
			continue
		}
		variantTags = append(variantTags, tag)
		p.variantIndex = append(p.variantIndex, i)
	}
	if len(variantTags) > 0 {
		p.variantMatcher = language.NewMatcher(variantTags)
	}
	return p
}

// SiteLocales canonicalises the configured locales and puts the default
// first. Malformed entries are dropped; an unusable default becomes "en".
func SiteLocales(defaultLocale string, locales []string) (string, []string) {
	def := canonical(defaultLocale)
	if def == "" {
		def = "en"
	}
	out := []string{def}
	for _, loc := range locales {
		c := canonical(loc)
		if c == "" || c == def || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return def, out
}

// Resolve never fails. An unknown or malformed locale resolves to the site
// default, and every empty string is filled from the next fallback level:
// matching variant, default locale variant, first declared variant, then
// values derived from the page itself.
func (p *Provider) Resolve(locale string) Metadata {
	resolved := p.resolveLocale(locale)
	chain := p.variantChain(resolved)

	md := Metadata{
		Locale:    resolved,
		Canonical: p.PageURL(resolved),
	}
	for _, v := range chain {
		if md.Title == "" {
			md.Title = v.Title
		}
		if md.Description == "" {
			md.Description = v.Description
		}
		if len(md.Keywords) == 0 && len(v.Keywords) > 0 {
			md.Keywords = append([]string(nil), v.Keywords...)
		}
	}

	if md.Title == "" {
		md.Title = p.page.Title
	}
	if md.Description == "" {
		md.Description = Summary(p.page.Introduction)
	}
	if md.Description == "" {
		md.Description = p.fallbackDescription()
	}
	if len(md.Keywords) == 0 && len(p.page.Tags) > 0 {
		md.Keywords = append([]string(nil), p.page.Tags...)
	}

	for _, loc := range p.siteLocales {
		md.Alternates = append(md.Alternates, Alternate{Locale: loc, URL: p.PageURL(loc)})
	}

	md.OpenGraph = OpenGraph{
		Title:       md.Title,
		Description: md.Description,
		Type:        ogTypeArticle,
		URL:         md.Canonical,
		Locale:      resolved,
		SiteName:    p.site.Title,
	}
	if img := p.ogImage(chain); img != "" {
		md.OpenGraph.Images = []Image{{URL: p.absolute(img), Alt: md.Title}}
	}
	return md
}

// Locales lists the configured site locales, default first.
func (p *Provider) Locales() []string {
	return append([]string(nil), p.siteLocales...)
}

func (p *Provider) DefaultLocale() string {
	return p.defaultLocale
}

// HasVariant reports whether the page declares its own strings for locale.
func (p *Provider) HasVariant(locale string) bool {
	want := canonical(locale)
	for _, i := range p.variantIndex {
		if canonical(p.page.Meta[i].Locale) == want {
			return true
		}
	}
	return false
}

// PagePath is the site-relative output path of the page for a locale,
// without the base path: "buddhism/early-buddhism/" or "hi/buddhism/early-buddhism/".
func (p *Provider) PagePath(locale string) string {
	return LocalePath(locale, p.defaultLocale, p.page.Path())
}

func (p *Provider) PageURL(locale string) string {
	return p.absolute("/" + p.PagePath(locale))
}

// LocalePath prefixes a site-relative path with the locale unless it is the
// default locale.
func LocalePath(locale, defaultLocale, path string) string {
	path = strings.Trim(path, "/")
	if locale != "" && locale != defaultLocale {
		path = locale + "/" + path
	}
	if path == "" {
		return ""
	}
	return path + "/"
}

func (p *Provider) resolveLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return p.defaultLocale
	}
	_, idx, conf := p.siteMatcher.Match(tag)
	if conf == language.No {
		return p.defaultLocale
	}
	return p.siteLocales[idx]
}

func (p *Provider) variantChain(resolved string) []*content.MetaVariant {
	var chain []*content.MetaVariant
	seen := make(map[int]bool)
	add := func(i int) {
		if i < 0 || seen[i] {
			return
		}
		seen[i] = true
		chain = append(chain, &p.page.Meta[i])
	}

	if p.variantMatcher != nil {
		_, idx, conf := p.variantMatcher.Match(language.Make(resolved))
		if conf != language.No {
			add(p.variantIndex[idx])
		}
	}
	add(p.exactVariant(p.defaultLocale))
	if len(p.page.Meta) > 0 {
		add(0)
	}
	return chain
}

func (p *Provider) exactVariant(locale string) int {
	for _, i := range p.variantIndex {
		if canonical(p.page.Meta[i].Locale) == locale {
			return i
		}
	}
	return -1
}

func (p *Provider) ogImage(chain []*content.MetaVariant) string {
	for _, v := range chain {
		if v.OGImage != "" {
			return v.OGImage
		}
	}
	if p.page.OGImage != "" {
		return p.page.OGImage
	}
	return p.site.OGImage
}

func (p *Provider) fallbackDescription() string {
	if p.site.Title != "" {
		return p.page.Title + " | " + p.site.Title
	}
	return p.page.Title
}

func (p *Provider) absolute(ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	base := strings.TrimRight(p.site.BaseURL, "/")
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return base + ref
}

func canonical(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return ""
	}
	return tag.String()
}
