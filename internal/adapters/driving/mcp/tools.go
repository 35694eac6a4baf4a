package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// KeywordsInput is the input schema for tools that take keywords.
type KeywordsInput struct {
	Keywords []string `json:"keywords" jsonschema:"keywords or topics; entries may also be comma separated"`
}

// HashtagsInput is the input schema for the build_hashtags tool.
type HashtagsInput struct {
	Keywords []string `json:"keywords" jsonschema:"keywords to turn into hashtags"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of hashtags (default 20)"`
}

// HashtagsOutput is the output schema for the build_hashtags tool.
type HashtagsOutput struct {
	Hashtags string `json:"hashtags"`
	Count    int    `json:"count"`
}

// CheckKeywordsOutput is the output schema for the check_keywords tool.
type CheckKeywordsOutput struct {
	Duplicates []string `json:"duplicates"`
	Fresh      []string `json:"fresh"`
}

// ListKeywordsInput is the input schema for the list_keywords tool.
type ListKeywordsInput struct {
	Limit int  `json:"limit,omitempty" jsonschema:"number of most recent keywords (default 10)"`
	All   bool `json:"all,omitempty" jsonschema:"return the whole ledger"`
}

// ListKeywordsOutput is the output schema for the list_keywords tool.
type ListKeywordsOutput struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// GeneratePostOutput is the output schema for the generate_post tool.
type GeneratePostOutput struct {
	Post       string   `json:"post"`
	Keywords   []string `json:"keywords"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_hashtags",
		Description: "Build LinkedIn hashtags from keywords, padded with generic tags",
	}, s.handleBuildHashtags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_keywords",
		Description: "Report which keywords were already published",
	}, s.handleCheckKeywords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_keywords",
		Description: "List previously published keywords, most recent last",
	}, s.handleListKeywords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_post",
		Description: "Generate a LinkedIn post draft about the keywords; nothing is published",
	}, s.handleGeneratePost)
}

func (s *Server) handleBuildHashtags(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HashtagsInput,
) (*mcp.CallToolResult, HashtagsOutput, error) {
	keywords, err := parseKeywords(input.Keywords)
	if err != nil {
		return nil, HashtagsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultHashtagLimit
	}

	tags := s.ports.Generator.Hashtags(keywords, limit)
	return nil, HashtagsOutput{
		Hashtags: tags,
		Count:    len(strings.Fields(tags)),
	}, nil
}

func (s *Server) handleCheckKeywords(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeywordsInput,
) (*mcp.CallToolResult, CheckKeywordsOutput, error) {
	keywords, err := parseKeywords(input.Keywords)
	if err != nil {
		return nil, CheckKeywordsOutput{}, err
	}

	dups, err := s.ports.Keywords.Duplicates(ctx, keywords)
	if err != nil {
		return nil, CheckKeywordsOutput{}, err
	}

	posted := make(map[string]bool, len(dups))
	for _, d := range dups {
		posted[domain.NormalizeKeyword(d)] = true
	}
	output := CheckKeywordsOutput{Duplicates: nonNil(dups), Fresh: []string{}}
	for _, kw := range keywords {
		if !posted[domain.NormalizeKeyword(kw)] {
			output.Fresh = append(output.Fresh, kw)
		}
	}
	return nil, output, nil
}

func (s *Server) handleListKeywords(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListKeywordsInput,
) (*mcp.CallToolResult, ListKeywordsOutput, error) {
	var (
		keywords []string
		err      error
	)
	if input.All {
		keywords, err = s.ports.Keywords.All(ctx)
	} else {
		limit := input.Limit
		if limit <= 0 {
			limit = domain.DefaultRecentKeywords
		}
		keywords, err = s.ports.Keywords.Recent(ctx, limit)
	}
	if err != nil {
		return nil, ListKeywordsOutput{}, err
	}

	keywords = nonNil(keywords)
	return nil, ListKeywordsOutput{Keywords: keywords, Count: len(keywords)}, nil
}

func (s *Server) handleGeneratePost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeywordsInput,
) (*mcp.CallToolResult, GeneratePostOutput, error) {
	keywords, err := parseKeywords(input.Keywords)
	if err != nil {
		return nil, GeneratePostOutput{}, err
	}

	// duplicates only warn
	dups, _ := s.ports.Keywords.Duplicates(ctx, keywords)

	post, err := s.ports.Generator.Generate(ctx, keywords)
	if err != nil {
		return nil, GeneratePostOutput{}, err
	}

	return nil, GeneratePostOutput{
		Post:       post,
		Keywords:   keywords,
		Duplicates: dups,
	}, nil
}

// parseKeywords accepts both list entries and comma separated values.
func parseKeywords(input []string) ([]string, error) {
	keywords := domain.ParseKeywords(strings.Join(input, ","))
	if len(keywords) == 0 {
		return nil, domain.ErrNoKeywords
	}
	return keywords, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
