package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCount(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected int
	}{
		{"valid", "postcraft://keywords/recent/5", 5},
		{"invalid prefix", "file://keywords/recent/5", 0},
		{"not a number", "postcraft://keywords/recent/five", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCount(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleKeywordsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		result, err := server.handleKeywordsResource(ctx, makeReadResourceRequest("postcraft://keywords"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns keywords", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: []string{"golang", "rust"}})

		result, err := server.handleKeywordsResource(ctx, makeReadResourceRequest("postcraft://keywords"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "golang")
		assert.Contains(t, result.Contents[0].Text, "rust")
	})

	t.Run("returns error on ledger failure", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{err: errors.New("database error")})

		_, err := server.handleKeywordsResource(ctx, makeReadResourceRequest("postcraft://keywords"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database error")
	})
}

func TestServer_handleRecentKeywordsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the last n", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: []string{"a", "b", "c"}})

		result, err := server.handleRecentKeywordsResource(ctx, makeReadResourceRequest("postcraft://keywords/recent/2"))

		require.NoError(t, err)
		assert.JSONEq(t, `["b", "c"]`, result.Contents[0].Text)
	})

	t.Run("invalid count is not found", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		_, err := server.handleRecentKeywordsResource(ctx, makeReadResourceRequest("postcraft://keywords/recent/0"))

		require.Error(t, err)
	})
}
