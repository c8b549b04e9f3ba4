// Package site renders a loaded catalog into a static output directory.
package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
	"religionatlas/internal/content"
	"religionatlas/internal/meta"
	"religionatlas/internal/nav"
	"religionatlas/internal/render"
)

// Result counts what a build did. Per-file failures are collected in Errors
// and do not stop the build.
type Result struct {
	PagesWritten   int
	PagesUnchanged int
	StaticCopied   int
	Errors         []error
}

type Options struct {
	OutputDir string
	Workers   int
}

// Builder holds everything a build reads and never modifies it, so pages
// can be rendered concurrently.
type Builder struct {
	cfg     *config.ProjectConfig
	schema  *config.Schema
	catalog *catalog.Catalog
	site    meta.Site

	base          string
	defaultLocale string
	locales       []string
}

func NewBuilder(cfg *config.ProjectConfig, schema *config.Schema, cat *catalog.Catalog) *Builder {
	b := &Builder{
		cfg:     cfg,
		schema:  schema,
		catalog: cat,
		site: meta.Site{
			Title:         cfg.Site.Title,
			BaseURL:       cfg.Site.BaseURL,
			DefaultLocale: cfg.Site.DefaultLocale,
			Locales:       cfg.Site.Locales,
			OGImage:       cfg.Site.OGImage,
		},
		base: cfg.BasePath(),
	}
	b.defaultLocale, b.locales = meta.SiteLocales(cfg.Site.DefaultLocale, cfg.Site.Locales)
	return b
}

type output struct {
	rel    string
	render func(w io.Writer) error
}

// Build writes one page per topic and locale, the catalogue pages and
// sitemap.xml. Files whose content did not change are left untouched.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = b.cfg.Build.OutputDir
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = b.cfg.Build.Workers
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	result := &Result{}
	if b.cfg.Build.StaticDir != "" {
		n, err := copyStatic(b.cfg.Build.StaticDir, outDir)
		if err != nil {
			return nil, fmt.Errorf("copying static files: %w", err)
		}
		result.StaticCopied = n
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, out := range b.outputs() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			changed, err := write(outDir, out)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors = append(result.Errors, fmt.Errorf("writing %s: %w", out.rel, err))
			case changed:
				result.PagesWritten++
			default:
				result.PagesUnchanged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Error() < result.Errors[j].Error()
	})
	return result, nil
}

// Outputs lists the site-relative files a build writes, in build order.
func (b *Builder) Outputs() []string {
	outs := b.outputs()
	rels := make([]string, 0, len(outs))
	for _, o := range outs {
		rels = append(rels, o.rel)
	}
	return rels
}

func (b *Builder) outputs() []output {
	var outs []output
	for _, page := range b.catalog.Pages {
		for _, loc := range b.locales {
			outs = append(outs, output{
				rel:    meta.LocalePath(loc, b.defaultLocale, page.Path()) + "index.html",
				render: func(w io.Writer) error { return render.WriteHTML(w, b.Document(page, loc)) },
			})
		}
	}

	for _, loc := range b.locales {
		outs = append(outs, output{
			rel:    meta.LocalePath(loc, b.defaultLocale, "") + "index.html",
			render: func(w io.Writer) error { return render.WriteIndex(w, b.Index(loc, "")) },
		})
		for _, source := range b.cfg.Sources {
			if len(b.catalog.Filter(source.Name, "")) == 0 {
				continue
			}
			outs = append(outs, output{
				rel:    meta.LocalePath(loc, b.defaultLocale, source.Name) + "index.html",
				render: func(w io.Writer) error { return render.WriteIndex(w, b.Index(loc, source.Name)) },
			})
		}
	}

	outs = append(outs, output{rel: "sitemap.xml", render: b.WriteSitemap})
	return outs
}

// Document assembles the complete view of one page in one locale.
func (b *Builder) Document(page *content.Page, locale string) render.Document {
	md := meta.NewProvider(page, b.site).Resolve(locale)
	root := b.root(md.Locale)

	labels := map[string]string{page.Path(): page.Title}
	if src, ok := b.cfg.SourceByName(page.Source); ok {
		labels[page.Source] = src.DisplayTitle()
	}

	return render.Document{
		Lang:        md.Locale,
		SiteTitle:   b.site.Title,
		Root:        root,
		Meta:        md,
		Breadcrumbs: nav.Breadcrumbs(root, b.site.Title, page.Path(), labels),
		Locales:     b.localeLinks(md.Locale, page.Path()),
		Tree:        render.Page(page, b.schema, render.Options{Base: root}),
	}
}

// Index builds the catalogue of all topics, or of a single source.
func (b *Builder) Index(locale, source string) render.Index {
	root := b.root(locale)
	idx := render.Index{
		Lang:      locale,
		SiteTitle: b.site.Title,
		Root:      root,
		Locales:   b.localeLinks(locale, source),
	}

	for _, src := range b.cfg.Sources {
		if source != "" && !strings.EqualFold(src.Name, source) {
			continue
		}
		group := render.IndexGroup{Title: src.DisplayTitle()}
		for _, page := range b.catalog.Filter(src.Name, "") {
			md := meta.NewProvider(page, b.site).Resolve(locale)
			group.Topics = append(group.Topics, render.IndexTopic{
				Title:       md.Title,
				Href:        nav.Join(root, page.Path()),
				Description: md.Description,
				Tags:        page.Tags,
			})
		}
		if len(group.Topics) > 0 {
			idx.Groups = append(idx.Groups, group)
		}
	}

	title, description := b.site.Title, b.site.Title
	if source != "" && len(idx.Groups) == 1 {
		title = idx.Groups[0].Title + " | " + b.site.Title
		description = idx.Groups[0].Title
	}
	canonical := b.absolute(meta.LocalePath(locale, b.defaultLocale, source))
	idx.Meta = meta.Metadata{
		Title:       title,
		Description: description,
		Locale:      locale,
		Canonical:   canonical,
		OpenGraph: meta.OpenGraph{
			Title:       title,
			Description: description,
			Type:        "website",
			URL:         canonical,
			Locale:      locale,
			SiteName:    b.site.Title,
		},
	}
	for _, loc := range b.locales {
		idx.Meta.Alternates = append(idx.Meta.Alternates, meta.Alternate{
			Locale: loc,
			URL:    b.absolute(meta.LocalePath(loc, b.defaultLocale, source)),
		})
	}
	return idx
}

// root is the base path of a locale, e.g. "/atlas/" or "/atlas/hi/".
func (b *Builder) root(locale string) string {
	return nav.Join(b.base, meta.LocalePath(locale, b.defaultLocale, ""))
}

func (b *Builder) localeLinks(current, rel string) []render.LocaleLink {
	links := make([]render.LocaleLink, 0, len(b.locales))
	for _, loc := range b.locales {
		links = append(links, render.LocaleLink{
			Locale:  loc,
			Href:    nav.Join(b.root(loc), rel),
			Current: loc == current,
		})
	}
	return links
}

// absolute turns a path relative to the site root into a URL.
func (b *Builder) absolute(rel string) string {
	if b.cfg.Site.BaseURL == "" {
		return b.base + rel
	}
	return strings.TrimRight(b.cfg.Site.BaseURL, "/") + "/" + rel
}

func write(outDir string, out output) (bool, error) {
	var buf bytes.Buffer
	if err := out.render(&buf); err != nil {
		return false, err
	}
	return writeIfChanged(filepath.Join(outDir, filepath.FromSlash(out.rel)), buf.Bytes())
}

func writeIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && sha256.Sum256(existing) == sha256.Sum256(data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func copyStatic(src, dst string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		changed, err := writeIfChanged(target, data)
		if err != nil {
			return err
		}
		if changed {
			copied++
		}
		return nil
	})
	return copied, err
}
