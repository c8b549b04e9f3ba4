package main

import (
	"log"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"religionatlas/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the read-only MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, schema, err := loadProject()
	if err != nil {
		return err
	}

	cat, loaded, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	for _, item := range loaded.Errors {
		log.Printf("%v", item)
	}

	server := mcp.NewServer(cfg, schema, cat, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
