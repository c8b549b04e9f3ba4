package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var source string
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List topic pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, source, tag)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Source to filter")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag to filter")
	return cmd
}

func runList(cmd *cobra.Command, source, tag string) error {
	cfg, _, err := loadProject()
	if err != nil {
		return err
	}

	cat, loaded, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	printLoadErrors(cmd.ErrOrStderr(), loaded.Errors)

	out := cmd.OutOrStdout()
	pages := cat.Filter(source, tag)
	if len(pages) == 0 {
		fmt.Fprintln(out, "No topics found.")
		return nil
	}

	for _, page := range pages {
		if len(page.Tags) > 0 {
			fmt.Fprintf(out, "%s  %s [%s]\n", page.Path(), page.Title, strings.Join(page.Tags, ", "))
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", page.Path(), page.Title)
	}
	return nil
}
