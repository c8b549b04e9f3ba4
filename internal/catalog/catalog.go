// Package catalog loads every topic file of a project into memory.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"religionatlas/internal/config"
	"religionatlas/internal/content"
	"religionatlas/internal/parser"
)

// Result counts what a load did. Per-file failures are collected in Errors
// and do not stop the load.
type Result struct {
	FilesParsed  int
	FilesSkipped int
	Errors       []error
}

// Duplicate is a page path claimed by more than one file.
type Duplicate struct {
	Path  string
	Files []string
}

// Catalog is the ordered set of parsed pages: sources in configuration
// order, files in lexical order within a source.
type Catalog struct {
	Pages      []*content.Page
	Duplicates []Duplicate

	byPath map[string]*content.Page
}

type Options struct {
	Workers int
}

type job struct {
	path   string
	source config.Source
}

func Load(ctx context.Context, cfg *config.ProjectConfig, opts Options) (*Catalog, *Result, error) {
	var jobs []job
	for _, source := range cfg.Sources {
		files, err := walkMarkdownFiles(source.Paths, cfg.Exclude)
		if err != nil {
			return nil, nil, fmt.Errorf("walking files for source %s: %w", source.Name, err)
		}
		for _, f := range files {
			jobs = append(jobs, job{path: f, source: source})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Build.Workers
	}

	result := &Result{}
	pages := make([]*content.Page, len(jobs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := parser.ParseFile(j.path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, parser.ErrNoFrontmatter) {
					result.FilesSkipped++
					return nil
				}
				result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", j.path, err))
				return nil
			}
			if page.Source == "" {
				page.Source = j.source.Name
			}
			pages[i] = page
			result.FilesParsed++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cat := &Catalog{byPath: make(map[string]*content.Page)}
	claimed := make(map[string]int)
	for _, page := range pages {
		if page == nil {
			continue
		}
		key := page.Path()
		if first, exists := cat.byPath[key]; exists {
			idx, seen := claimed[key]
			if !seen {
				cat.Duplicates = append(cat.Duplicates, Duplicate{Path: key, Files: []string{first.SourceFile}})
				idx = len(cat.Duplicates) - 1
				claimed[key] = idx
			}
			cat.Duplicates[idx].Files = append(cat.Duplicates[idx].Files, page.SourceFile)
			result.Errors = append(result.Errors, fmt.Errorf("duplicate page %s: %s already defines it", page.SourceFile, first.SourceFile))
			continue
		}
		cat.byPath[key] = page
		cat.Pages = append(cat.Pages, page)
	}

	// Errors arrive in completion order.
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Error() < result.Errors[j].Error()
	})
	return cat, result, nil
}

// New builds a catalog from already parsed pages, keeping the first page
// for each path.
func New(pages ...*content.Page) *Catalog {
	cat := &Catalog{byPath: make(map[string]*content.Page)}
	for _, p := range pages {
		if _, exists := cat.byPath[p.Path()]; exists {
			continue
		}
		cat.byPath[p.Path()] = p
		cat.Pages = append(cat.Pages, p)
	}
	return cat
}

// Lookup finds a page by path ("buddhism/early-buddhism") or by bare slug
// when the slug is unique.
func (c *Catalog) Lookup(ref string) (*content.Page, bool) {
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if p, ok := c.byPath[ref]; ok {
		return p, true
	}
	var found *content.Page
	for _, p := range c.Pages {
		if p.Slug == ref {
			if found != nil {
				return nil, false
			}
			found = p
		}
	}
	return found, found != nil
}

// Has reports whether a site-relative page path exists.
func (c *Catalog) Has(path string) bool {
	_, ok := c.byPath[strings.Trim(path, "/")]
	return ok
}

// Filter returns the pages of a source and/or carrying a tag. Empty
// arguments match everything.
func (c *Catalog) Filter(source, tag string) []*content.Page {
	var out []*content.Page
	for _, p := range c.Pages {
		if source != "" && !strings.EqualFold(p.Source, source) {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(p *content.Page, tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
