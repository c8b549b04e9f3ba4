package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"religionatlas/internal/config"
	"religionatlas/internal/content"
	"religionatlas/internal/meta"
	"religionatlas/internal/render"
)

type ListTopicsInput struct {
	Source string `json:"source,omitempty" jsonschema:"restrict to one source, e.g. buddhism"`
	Tag    string `json:"tag,omitempty" jsonschema:"restrict to topics carrying this tag"`
}

type GetTopicInput struct {
	Topic  string `json:"topic" jsonschema:"topic path (buddhism/early-buddhism) or unique slug"`
	Locale string `json:"locale,omitempty" jsonschema:"locale for the title and metadata"`
}

type GetMetadataInput struct {
	Topic  string `json:"topic" jsonschema:"topic path (buddhism/early-buddhism) or unique slug"`
	Locale string `json:"locale,omitempty" jsonschema:"requested locale; unknown locales fall back"`
}

type GetSchemaInput struct{}

type TopicSummaryOutput struct {
	Path        string   `json:"path"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

type ListTopicsOutput struct {
	Topics []TopicSummaryOutput `json:"topics"`
}

type TopicOutput struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	SourceFile  string   `json:"source_file"`
	Tags        []string `json:"tags"`
	Collections []string `json:"collections"`
	Outline     string   `json:"outline"`
}

type AlternateOutput struct {
	Locale string `json:"locale"`
	URL    string `json:"url"`
}

type MetadataOutput struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Keywords      []string          `json:"keywords"`
	Canonical     string            `json:"canonical"`
	Locale        string            `json:"locale"`
	Alternates    []AlternateOutput `json:"alternates"`
	OGTitle       string            `json:"og_title"`
	OGDescription string            `json:"og_description"`
	OGType        string            `json:"og_type"`
	OGImages      []string          `json:"og_images"`
}

type SchemaOutput struct {
	Version     int                `json:"version"`
	Collections []CollectionOutput `json:"collections"`
}

type CollectionOutput struct {
	Name   string        `json:"name"`
	Title  string        `json:"title"`
	Fields []FieldOutput `json:"fields"`
}

type FieldOutput struct {
	Name   string        `json:"name"`
	Label  string        `json:"label,omitempty"`
	Kind   string        `json:"kind"`
	Fields []FieldOutput `json:"fields,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_topics",
		Description: "List topic pages with optional source and tag filters",
	}, s.handleListTopics)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_topic",
		Description: "Return a topic page rendered as a plain-text outline",
	}, s.handleGetTopic)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_metadata",
		Description: "Resolve the SEO metadata of a topic page for a locale",
	}, s.handleGetMetadata)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_schema",
		Description: "Return the display schema shared by all topic pages",
	}, s.handleGetSchema)
}

func (s *Server) handleListTopics(ctx context.Context, req *sdk.CallToolRequest, input ListTopicsInput) (*sdk.CallToolResult, ListTopicsOutput, error) {
	pages := s.catalog.Filter(input.Source, input.Tag)
	output := make([]TopicSummaryOutput, 0, len(pages))
	for _, page := range pages {
		md := s.metadata(page, "")
		output = append(output, TopicSummaryOutput{
			Path:        page.Path(),
			Slug:        page.Slug,
			Title:       page.Title,
			Source:      page.Source,
			Description: md.Description,
			Tags:        append([]string{}, page.Tags...),
		})
	}
	return nil, ListTopicsOutput{Topics: output}, nil
}

func (s *Server) handleGetTopic(ctx context.Context, req *sdk.CallToolRequest, input GetTopicInput) (*sdk.CallToolResult, TopicOutput, error) {
	page, err := s.lookup(input.Topic)
	if err != nil {
		return nil, TopicOutput{}, err
	}

	doc := s.builder.Document(page, input.Locale)
	var outline strings.Builder
	if err := render.WriteText(&outline, doc.Tree); err != nil {
		return nil, TopicOutput{}, fmt.Errorf("rendering %s: %w", page.Path(), err)
	}

	collections := make([]string, 0, len(page.Collections))
	for _, c := range page.Collections {
		collections = append(collections, c.Name)
	}
	return nil, TopicOutput{
		Path:        page.Path(),
		Title:       page.Title,
		Source:      page.Source,
		SourceFile:  page.SourceFile,
		Tags:        append([]string{}, page.Tags...),
		Collections: collections,
		Outline:     outline.String(),
	}, nil
}

func (s *Server) handleGetMetadata(ctx context.Context, req *sdk.CallToolRequest, input GetMetadataInput) (*sdk.CallToolResult, MetadataOutput, error) {
	page, err := s.lookup(input.Topic)
	if err != nil {
		return nil, MetadataOutput{}, err
	}
	return nil, metadataOutput(s.metadata(page, input.Locale)), nil
}

func (s *Server) handleGetSchema(ctx context.Context, req *sdk.CallToolRequest, input GetSchemaInput) (*sdk.CallToolResult, SchemaOutput, error) {
	return nil, schemaOutputFromConfig(s.schema), nil
}

func (s *Server) lookup(ref string) (*content.Page, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	page, ok := s.catalog.Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("topic not found: %s", ref)
	}
	return page, nil
}

func (s *Server) metadata(page *content.Page, locale string) meta.Metadata {
	return s.builder.Document(page, locale).Meta
}

func metadataOutput(md meta.Metadata) MetadataOutput {
	out := MetadataOutput{
		Title:         md.Title,
		Description:   md.Description,
		Keywords:      append([]string{}, md.Keywords...),
		Canonical:     md.Canonical,
		Locale:        md.Locale,
		Alternates:    make([]AlternateOutput, 0, len(md.Alternates)),
		OGTitle:       md.OpenGraph.Title,
		OGDescription: md.OpenGraph.Description,
		OGType:        md.OpenGraph.Type,
		OGImages:      make([]string, 0, len(md.OpenGraph.Images)),
	}
	for _, alt := range md.Alternates {
		out.Alternates = append(out.Alternates, AlternateOutput{Locale: alt.Locale, URL: alt.URL})
	}
	for _, img := range md.OpenGraph.Images {
		out.OGImages = append(out.OGImages, img.URL)
	}
	return out
}

func schemaOutputFromConfig(schema *config.Schema) SchemaOutput {
	if schema == nil {
		return SchemaOutput{}
	}

	out := SchemaOutput{
		Version:     schema.Version,
		Collections: make([]CollectionOutput, 0, len(schema.Collections)),
	}
	for _, ct := range schema.Collections {
		out.Collections = append(out.Collections, CollectionOutput{
			Name:   ct.Name,
			Title:  ct.Title,
			Fields: fieldOutputs(ct.Fields),
		})
	}
	return out
}

func fieldOutputs(fields []config.Field) []FieldOutput {
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldOutput, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldOutput{
			Name:   f.Name,
			Label:  f.Label,
			Kind:   f.Kind,
			Fields: fieldOutputs(f.Fields),
		})
	}
	return out
}
