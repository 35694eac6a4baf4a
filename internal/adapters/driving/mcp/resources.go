package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for postcraft resources.
	uriScheme = "postcraft://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "keywords",
		Name:        "keywords",
		Description: "Every keyword recorded in the ledger, oldest first",
		MIMEType:    "application/json",
	}, s.handleKeywordsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "keywords/recent/{count}",
		Name:        "recent-keywords",
		Description: "The most recently published keywords",
		MIMEType:    "application/json",
	}, s.handleRecentKeywordsResource)
}

// handleKeywordsResource returns the whole ledger.
func (s *Server) handleKeywordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	keywords, err := s.ports.Keywords.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	return jsonResource(req.Params.URI, nonNil(keywords))
}

// handleRecentKeywordsResource returns the last {count} keywords.
func (s *Server) handleRecentKeywordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	count := extractCount(req.Params.URI)
	if count <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	keywords, err := s.ports.Keywords.Recent(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("listing recent keywords: %w", err)
	}
	return jsonResource(req.Params.URI, nonNil(keywords))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCount extracts n from postcraft://keywords/recent/{n}, or 0.
func extractCount(uri string) int {
	const prefix = uriScheme + "keywords/recent/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return 0
	}
	return n
}
