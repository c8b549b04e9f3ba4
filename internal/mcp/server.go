// Package mcp exposes the loaded atlas read-only over the Model Context
// Protocol.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"religionatlas/internal/catalog"
	"religionatlas/internal/config"
	"religionatlas/internal/site"
)

type Server struct {
	cfg     *config.ProjectConfig
	schema  *config.Schema
	catalog *catalog.Catalog
	builder *site.Builder
	mcp     *sdk.Server
}

func NewServer(cfg *config.ProjectConfig, schema *config.Schema, cat *catalog.Catalog, version string) *Server {
	s := &Server{
		cfg:     cfg,
		schema:  schema,
		catalog: cat,
		builder: site.NewBuilder(cfg, schema, cat),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "religionatlas",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
