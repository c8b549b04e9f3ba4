package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"religionatlas/internal/content"
)

var (
	ErrNoFrontmatter     = errors.New("no frontmatter found")
	ErrInvalidYAML       = errors.New("invalid YAML in frontmatter")
	ErrMissingTitle      = errors.New("frontmatter missing required 'title' field")
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidSlug       = errors.New("invalid slug")
)

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type frontMatter struct {
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug"`
	Source     string    `yaml:"source"`
	Tags       any       `yaml:"tags"`
	OGImage    string    `yaml:"og_image"`
	Timeline   *timeline `yaml:"timeline"`
	Meta       yaml.Node `yaml:"meta"`
	Collection yaml.Node `yaml:"collections"`
	LinksTitle string    `yaml:"links_title"`
	Links      []link    `yaml:"links"`
}

type timeline struct {
	Start        string   `yaml:"start"`
	End          string   `yaml:"end"`
	Overview     string   `yaml:"overview"`
	Significance []string `yaml:"significance"`
}

type link struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

type metaVariant struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	OGImage     string   `yaml:"og_image"`
}

// ParseFile parses a topic file. Without an explicit slug the file name is
// used.
func ParseFile(path string) (*content.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := split(data)
	if err != nil {
		return nil, err
	}

	slugSource := fm.Slug
	if strings.TrimSpace(slugSource) == "" {
		base := filepath.Base(path)
		slugSource = strings.TrimSuffix(base, filepath.Ext(base))
	}

	page, err := build(fm, body, slugSource)
	if err != nil {
		return nil, err
	}
	page.SourceFile = path
	return page, nil
}

// Parse parses topic file content. Without an explicit slug the title is
// used.
func Parse(data []byte) (*content.Page, error) {
	fm, body, err := split(data)
	if err != nil {
		return nil, err
	}
	slugSource := fm.Slug
	if strings.TrimSpace(slugSource) == "" {
		slugSource = fm.Title
	}
	return build(fm, body, slugSource)
}

func split(data []byte) (*frontMatter, []byte, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff\n\r\t ")
	if !bytes.HasPrefix(trimmed, []byte("---\n")) && !bytes.HasPrefix(trimmed, []byte("---\r\n")) {
		return nil, nil, ErrNoFrontmatter
	}
	if !hasClosingDelimiter(trimmed) {
		return nil, nil, ErrNoFrontmatter
	}

	var fm frontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(trimmed), &fm, yamlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, nil, ErrNoFrontmatter
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &fm, body, nil
}

func hasClosingDelimiter(data []byte) bool {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for _, line := range lines[1:] {
		if strings.TrimRight(line, " \t") == "---" {
			return true
		}
	}
	return false
}

func build(fm *frontMatter, body []byte, slugSource string) (*content.Page, error) {
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	slug, err := content.NormalizeSlug(slugSource)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSlug, slugSource, err)
	}

	tags, err := parseTags(fm.Tags)
	if err != nil {
		return nil, err
	}

	collections, err := content.DecodeCollections(&fm.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}

	meta, err := parseMeta(&fm.Meta)
	if err != nil {
		return nil, err
	}

	page := &content.Page{
		Slug:         slug,
		Title:        title,
		Source:       strings.TrimSpace(fm.Source),
		Introduction: strings.TrimSpace(string(body)),
		Collections:  collections,
		LinksTitle:   strings.TrimSpace(fm.LinksTitle),
		Meta:         meta,
		OGImage:      fm.OGImage,
		Tags:         tags,
	}
	if fm.Timeline != nil {
		page.Timeline = &content.Timeline{
			Start:        fm.Timeline.Start,
			End:          fm.Timeline.End,
			Overview:     strings.TrimSpace(fm.Timeline.Overview),
			Significance: fm.Timeline.Significance,
		}
	}
	for _, l := range fm.Links {
		if strings.TrimSpace(l.Path) == "" {
			return nil, fmt.Errorf("link %q has no path", l.Label)
		}
		label := l.Label
		if strings.TrimSpace(label) == "" {
			label = l.Path
		}
		page.Links = append(page.Links, content.Link{Label: label, Path: l.Path})
	}
	return page, nil
}

// parseMeta decodes the locale-keyed meta block, keeping declaration order.
func parseMeta(node *yaml.Node) ([]content.MetaVariant, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: meta must be a mapping of locales", ErrInvalidYAML)
	}

	variants := make([]content.MetaVariant, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		locale := strings.TrimSpace(node.Content[i].Value)
		var mv metaVariant
		if err := node.Content[i+1].Decode(&mv); err != nil {
			return nil, fmt.Errorf("%w: meta %s: %v", ErrInvalidYAML, locale, err)
		}
		variants = append(variants, content.MetaVariant{
			Locale:      locale,
			Title:       strings.TrimSpace(mv.Title),
			Description: strings.TrimSpace(mv.Description),
			Keywords:    mv.Keywords,
			OGImage:     mv.OGImage,
		})
	}
	return variants, nil
}

func parseTags(value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings")
			}
			if strings.TrimSpace(s) == "" {
				continue
			}
			tags = append(tags, s)
		}
		if len(tags) == 0 {
			return nil, nil
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("tags must be string or list of strings")
	}
}
