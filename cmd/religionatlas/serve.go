package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"religionatlas/internal/config"
	"religionatlas/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and preview it over HTTP",
		Long: `serve performs a build, then serves the output directory with caching
disabled. With --watch the site is rebuilt whenever topic files, static files,
the project config or the schema change.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().Bool("watch", false, "Rebuild on source changes")
	cmd.Flags().String("out", "", "Output directory (overrides build.output_dir)")
	cmd.Flags().Int("workers", 0, "Parallel workers (overrides build.workers)")
	cmd.Flags().String("base-url", "", "Site base URL (overrides site.base_url)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, schema, err := loadProject()
	if err != nil {
		return err
	}

	log.Println("performing initial build")
	if err := rebuild(ctx, cfg, schema); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	handler := server.NewHandler(cfg.Build.OutputDir, cfg.BasePath())
	addr := fmt.Sprintf(":%d", settings.GetInt("port"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, addr, handler)
	})

	if settings.GetBool("watch") {
		watcher, err := server.NewWatcher(watchPaths(cfg), server.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		defer watcher.Close()

		g.Go(func() error {
			return watcher.Run(gctx, func(ctx context.Context) error {
				// Config and schema may have changed too.
				cfg, schema, err := loadProject()
				if err != nil {
					return err
				}
				return rebuild(ctx, cfg, schema)
			})
		})
	}

	return g.Wait()
}

func rebuild(ctx context.Context, cfg *config.ProjectConfig, schema *config.Schema) error {
	loaded, built, err := buildSite(ctx, cfg, schema)
	if err != nil {
		return err
	}
	for _, item := range loaded.Errors {
		log.Printf("%v", item)
	}
	for _, item := range built.Errors {
		log.Printf("%v", item)
	}
	log.Printf("%d pages written, %d unchanged", built.PagesWritten, built.PagesUnchanged)
	return nil
}

func watchPaths(cfg *config.ProjectConfig) []string {
	paths := []string{settings.GetString("config"), settings.GetString("schema")}
	for _, source := range cfg.Sources {
		paths = append(paths, source.Paths...)
	}
	if cfg.Build.StaticDir != "" {
		paths = append(paths, filepath.Clean(cfg.Build.StaticDir))
	}
	return paths
}
