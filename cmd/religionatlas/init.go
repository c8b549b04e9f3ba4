package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"religionatlas/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	var template string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new atlas project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, template)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&template, "template", "default", "Schema template name")
	return cmd
}

func runInit(projectName, template string) error {
	configPath := settings.GetString("config")
	schemaPath := settings.GetString("schema")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return fmt.Errorf("%s already exists", schemaPath)
	}

	contents, err := config.SchemaTemplate(template)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", template, err)
	}

	configContents := fmt.Sprintf(`project: %s
version: 1

site:
  title: %s
  base_url: http://localhost:8080/
  default_locale: en
  locales: [en]

build:
  output_dir: ./public
  static_dir: ./static
  workers: 4

sources:
  - name: buddhism
    title: Buddhism
    paths:
      - ./content/buddhism/

exclude:
  - ./content/drafts/
`, projectName, projectName)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(schemaPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", schemaPath, err)
	}
	if err := os.MkdirAll("content/buddhism", 0o755); err != nil {
		return fmt.Errorf("creating content directory: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Created %s and %s.\n", configPath, schemaPath)
	return nil
}
