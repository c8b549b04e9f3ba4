package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
	"religionatlas/internal/site"
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every topic page into the output directory",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}
	cmd.Flags().String("out", "", "Output directory (overrides build.output_dir)")
	cmd.Flags().Int("workers", 0, "Parallel workers (overrides build.workers)")
	cmd.Flags().String("base-url", "", "Site base URL (overrides site.base_url)")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, schema, err := loadProject()
	if err != nil {
		return err
	}

	loaded, built, err := buildSite(cmd.Context(), cfg, schema)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Build complete.")
	fmt.Fprintf(os.Stdout, "  Files parsed:    %d\n", loaded.FilesParsed)
	fmt.Fprintf(os.Stdout, "  Files skipped:   %d\n", loaded.FilesSkipped)
	fmt.Fprintf(os.Stdout, "  Pages written:   %d\n", built.PagesWritten)
	fmt.Fprintf(os.Stdout, "  Pages unchanged: %d\n", built.PagesUnchanged)
	fmt.Fprintf(os.Stdout, "  Static copied:   %d\n", built.StaticCopied)
	fmt.Fprintf(os.Stdout, "  Output:          %s\n", cfg.Build.OutputDir)

	errs := append(append([]error{}, loaded.Errors...), built.Errors...)
	if len(errs) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(errs))
		for _, item := range errs {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("build completed with errors")
	}
	return nil
}

func buildSite(ctx context.Context, cfg *config.ProjectConfig, schema *config.Schema) (*catalog.Result, *site.Result, error) {
	cat, loaded, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	built, err := site.NewBuilder(cfg, schema, cat).Build(ctx, site.Options{
		OutputDir: cfg.Build.OutputDir,
		Workers:   cfg.Build.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	return loaded, built, nil
}
