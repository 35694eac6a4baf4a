package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

func newTestServer(t *testing.T, gen *mockGenerator, kw *mockKeywordService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Generator: gen, Keywords: kw})
	require.NoError(t, err)
	return server
}

func TestServer_handleBuildHashtags(t *testing.T) {
	ctx := context.Background()

	t.Run("builds hashtags with default limit", func(t *testing.T) {
		gen := &mockGenerator{}
		server := newTestServer(t, gen, &mockKeywordService{})

		_, output, err := server.handleBuildHashtags(ctx, nil, HashtagsInput{
			Keywords: []string{"machine learning", "go"},
		})

		require.NoError(t, err)
		assert.Equal(t, "#machinelearning #go", output.Hashtags)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, domain.DefaultHashtagLimit, gen.lastLimit)
	})

	t.Run("accepts comma separated entries", func(t *testing.T) {
		gen := &mockGenerator{}
		server := newTestServer(t, gen, &mockKeywordService{})

		_, output, err := server.handleBuildHashtags(ctx, nil, HashtagsInput{
			Keywords: []string{"ai, cloud"},
			Limit:    5,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 5, gen.lastLimit)
	})

	t.Run("rejects empty keywords", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		_, _, err := server.handleBuildHashtags(ctx, nil, HashtagsInput{Keywords: []string{" ", ","}})

		assert.ErrorIs(t, err, domain.ErrNoKeywords)
	})
}

func TestServer_handleCheckKeywords(t *testing.T) {
	ctx := context.Background()

	t.Run("splits duplicates and fresh keywords", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: []string{"golang"}})

		_, output, err := server.handleCheckKeywords(ctx, nil, KeywordsInput{
			Keywords: []string{"GoLang", "rust"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"GoLang"}, output.Duplicates)
		assert.Equal(t, []string{"rust"}, output.Fresh)
	})

	t.Run("no duplicates returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		_, output, err := server.handleCheckKeywords(ctx, nil, KeywordsInput{Keywords: []string{"rust"}})

		require.NoError(t, err)
		assert.NotNil(t, output.Duplicates)
		assert.Empty(t, output.Duplicates)
	})

	t.Run("ledger failure is returned", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{err: errors.New("disk")})

		_, _, err := server.handleCheckKeywords(ctx, nil, KeywordsInput{Keywords: []string{"rust"}})

		assert.EqualError(t, err, "disk")
	})
}

func TestServer_handleListKeywords(t *testing.T) {
	ctx := context.Background()
	entries := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	t.Run("recent by default", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: entries})

		_, output, err := server.handleListKeywords(ctx, nil, ListKeywordsInput{})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRecentKeywords, output.Count)
		assert.Equal(t, "l", output.Keywords[output.Count-1])
	})

	t.Run("custom limit", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: entries})

		_, output, err := server.handleListKeywords(ctx, nil, ListKeywordsInput{Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, []string{"k", "l"}, output.Keywords)
	})

	t.Run("all entries", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{entries: entries})

		_, output, err := server.handleListKeywords(ctx, nil, ListKeywordsInput{All: true})

		require.NoError(t, err)
		assert.Len(t, output.Keywords, len(entries))
	})

	t.Run("empty ledger", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		_, output, err := server.handleListKeywords(ctx, nil, ListKeywordsInput{})

		require.NoError(t, err)
		assert.NotNil(t, output.Keywords)
		assert.Zero(t, output.Count)
	})
}

func TestServer_handleGeneratePost(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the draft and duplicate warnings", func(t *testing.T) {
		gen := &mockGenerator{post: "Go is great"}
		server := newTestServer(t, gen, &mockKeywordService{entries: []string{"go"}})

		_, output, err := server.handleGeneratePost(ctx, nil, KeywordsInput{Keywords: []string{"go", "testing"}})

		require.NoError(t, err)
		assert.Equal(t, "Go is great", output.Post)
		assert.Equal(t, []string{"go", "testing"}, output.Keywords)
		assert.Equal(t, []string{"go"}, output.Duplicates)
		assert.Equal(t, []string{"go", "testing"}, gen.keywords)
	})

	t.Run("ledger failure does not block generation", func(t *testing.T) {
		gen := &mockGenerator{post: "ok"}
		server := newTestServer(t, gen, &mockKeywordService{err: errors.New("disk")})

		_, output, err := server.handleGeneratePost(ctx, nil, KeywordsInput{Keywords: []string{"go"}})

		require.NoError(t, err)
		assert.Equal(t, "ok", output.Post)
	})

	t.Run("generation failure is returned", func(t *testing.T) {
		gen := &mockGenerator{err: domain.ErrGeneration}
		server := newTestServer(t, gen, &mockKeywordService{})

		_, _, err := server.handleGeneratePost(ctx, nil, KeywordsInput{Keywords: []string{"go"}})

		assert.ErrorIs(t, err, domain.ErrGeneration)
	})

	t.Run("no keywords", func(t *testing.T) {
		server := newTestServer(t, &mockGenerator{}, &mockKeywordService{})

		_, _, err := server.handleGeneratePost(ctx, nil, KeywordsInput{})

		assert.ErrorIs(t, err, domain.ErrNoKeywords)
	})
}
