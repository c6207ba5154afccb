package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Wayfarer resources.
	uriScheme = "wayfarer://"
)

// categoryInfo is the wire shape of one knowledge category.
type categoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SeedFile    string `json:"seed_file"`
	Index       string `json:"index"`
}

// registerResources wires the resource handlers into the SDK server.
func (s *Server) registerResources() {
	// Static resource for listing knowledge categories.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Knowledge categories available for retrieval and planning",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	// Template for one category's description.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{category}",
		Name:        "category",
		Description: "Details of one knowledge category",
		MIMEType:    "application/json",
	}, s.handleCategoryResource)
}

// handleCategoriesResource returns the list of knowledge categories.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.AllCategories()
	infos := make([]categoryInfo, len(categories))
	for i, category := range categories {
		infos[i] = categoryInfo{
			Name:        category.String(),
			Description: category.Description(),
			SeedFile:    category.SeedFile(),
			Index:       category.IndexName(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling categories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleCategoryResource returns details for a single category.
func (s *Server) handleCategoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractCategoryName(req.Params.URI)
	category, ok := domain.ParseCategory(name)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info := categoryInfo{
		Name:        category.String(),
		Description: category.Description(),
		SeedFile:    category.SeedFile(),
		Index:       category.IndexName(),
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling category: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCategoryName extracts the category from a URI like wayfarer://categories/{category}.
func extractCategoryName(uri string) string {
	const prefix = uriScheme + "categories/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
