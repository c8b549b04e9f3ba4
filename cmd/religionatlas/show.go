package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"religionatlas/internal/render"
	"religionatlas/internal/site"
)

func showCmd() *cobra.Command {
	var locale string
	var html bool
	cmd := &cobra.Command{
		Use:   "show <topic>",
		Short: "Print a topic's metadata and rendered outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], locale, html)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Locale to resolve metadata for")
	cmd.Flags().BoolVar(&html, "html", false, "Print the full HTML page instead of the outline")
	return cmd
}

func runShow(cmd *cobra.Command, ref, locale string, html bool) error {
	cfg, schema, err := loadProject()
	if err != nil {
		return err
	}

	cat, loaded, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	// Parse errors go to stderr so --html output stays a clean page.
	printLoadErrors(cmd.ErrOrStderr(), loaded.Errors)

	page, ok := cat.Lookup(ref)
	if !ok {
		if n := len(loaded.Errors); n > 0 {
			return fmt.Errorf("topic not found: %s (%d topic files failed to parse)", ref, n)
		}
		return fmt.Errorf("topic not found: %s", ref)
	}

	out := cmd.OutOrStdout()
	doc := site.NewBuilder(cfg, schema, cat).Document(page, locale)
	if html {
		return render.WriteHTML(out, doc)
	}

	md := doc.Meta
	fmt.Fprintf(out, "Title:       %s\n", md.Title)
	fmt.Fprintf(out, "Description: %s\n", md.Description)
	if len(md.Keywords) > 0 {
		fmt.Fprintf(out, "Keywords:    %s\n", strings.Join(md.Keywords, ", "))
	}
	fmt.Fprintf(out, "Locale:      %s\n", md.Locale)
	fmt.Fprintf(out, "Canonical:   %s\n", md.Canonical)
	for _, alt := range md.Alternates {
		fmt.Fprintf(out, "Alternate:   %s %s\n", alt.Locale, alt.URL)
	}
	fmt.Fprintf(out, "Source file: %s\n\n", page.SourceFile)

	return render.WriteText(out, doc.Tree)
}
