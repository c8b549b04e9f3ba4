package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
)

const (
	envPrefix         = "ATLAS"
	defaultConfigPath = "site.yaml"
	defaultSchemaPath = "schema.yaml"
)

// settings merges command flags with ATLAS_* environment variables, e.g.
// ATLAS_OUT or ATLAS_BASE_URL. Flags set on the command line win.
var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault("config", defaultConfigPath)
	v.SetDefault("schema", defaultSchemaPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func bindSettings(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		if err := settings.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// loadProject reads the project config and schema and applies overrides.
func loadProject() (*config.ProjectConfig, *config.Schema, error) {
	cfg, err := config.LoadProjectConfig(settings.GetString("config"))
	if err != nil {
		return nil, nil, err
	}
	if out := settings.GetString("out"); out != "" {
		cfg.Build.OutputDir = out
	}
	if workers := settings.GetInt("workers"); workers > 0 {
		cfg.Build.Workers = workers
	}
	if baseURL := settings.GetString("base-url"); baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}

	schemaPath := settings.GetString("schema")
	schema, err := config.LoadSchema(schemaPath)
	if errors.Is(err, os.ErrNotExist) && schemaPath == defaultSchemaPath {
		return cfg, config.DefaultSchema(), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, schema, nil
}

func loadCatalog(ctx context.Context, cfg *config.ProjectConfig) (*catalog.Catalog, *catalog.Result, error) {
	return catalog.Load(ctx, cfg, catalog.Options{Workers: cfg.Build.Workers})
}

// printLoadErrors lists the topic files that failed to parse. Those pages are
// missing from every command's view of the catalog.
func printLoadErrors(w io.Writer, errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "Parse errors (%d):\n", len(errs))
	for _, err := range errs {
		fmt.Fprintf(w, "  - %v\n", err)
	}
	fmt.Fprintln(w, "")
}
