package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project string      `yaml:"project"`
	Version int         `yaml:"version"`
	Site    SiteConfig  `yaml:"site"`
	Build   BuildConfig `yaml:"build"`
	Sources []Source    `yaml:"sources"`
	Exclude []string    `yaml:"exclude"`
}

type SiteConfig struct {
	Title         string   `yaml:"title"`
	BaseURL       string   `yaml:"base_url"`
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
	OGImage       string   `yaml:"og_image"`
}

type BuildConfig struct {
	OutputDir string `yaml:"output_dir"`
	StaticDir string `yaml:"static_dir"`
	Workers   int    `yaml:"workers"`
}

// Source is a named group of topic directories, e.g. one religion.
type Source struct {
	Name  string   `yaml:"name"`
	Title string   `yaml:"title"`
	Paths []string `yaml:"paths"`
}

const (
	defaultOutputDir = "public"
	defaultLocale    = "en"
	defaultWorkers   = 4
)

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Site.DefaultLocale) == "" {
		cfg.Site.DefaultLocale = defaultLocale
	}
	if len(cfg.Site.Locales) == 0 {
		cfg.Site.Locales = []string{cfg.Site.DefaultLocale}
	}
	if strings.TrimSpace(cfg.Build.OutputDir) == "" {
		cfg.Build.OutputDir = defaultOutputDir
	}
	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = defaultWorkers
	}
	if strings.TrimSpace(cfg.Site.Title) == "" {
		cfg.Site.Title = cfg.Project
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if cfg.Site.BaseURL != "" {
		u, err := url.Parse(cfg.Site.BaseURL)
		if err != nil || (u.Scheme != "" && u.Host == "") {
			return fmt.Errorf("invalid base url: %q", cfg.Site.BaseURL)
		}
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	locales := make(map[string]struct{})
	for _, loc := range cfg.Site.Locales {
		tag, err := language.Parse(loc)
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", loc, err)
		}
		key := tag.String()
		if _, exists := locales[key]; exists {
			return fmt.Errorf("duplicate locale: %s", loc)
		}
		locales[key] = struct{}{}
	}
	defaultTag, err := language.Parse(cfg.Site.DefaultLocale)
	if err != nil {
		return fmt.Errorf("invalid default locale %q: %w", cfg.Site.DefaultLocale, err)
	}
	if _, ok := locales[defaultTag.String()]; !ok {
		return fmt.Errorf("default locale %s is not listed in locales", cfg.Site.DefaultLocale)
	}

	seen := make(map[string]struct{})
	for i, source := range cfg.Sources {
		if strings.TrimSpace(source.Name) == "" {
			return fmt.Errorf("source %d name is required", i)
		}
		if len(source.Paths) == 0 {
			return fmt.Errorf("source %d paths are required", i)
		}
		key := strings.ToLower(source.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// SourceByName returns the source with the given name, ignoring case.
func (c *ProjectConfig) SourceByName(name string) (*Source, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Sources {
		if strings.EqualFold(c.Sources[i].Name, name) {
			return &c.Sources[i], true
		}
	}
	return nil, false
}

// DisplayTitle falls back to the source name when no title is configured.
func (s Source) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return s.Name
}

// BasePath is the path component of the base URL with a trailing slash.
func (c *ProjectConfig) BasePath() string {
	if c == nil || c.Site.BaseURL == "" {
		return "/"
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
