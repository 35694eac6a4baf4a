package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// mockGenerator is a mock implementation of driving.ContentGenerator.
type mockGenerator struct {
	post      string
	err       error
	keywords  []string
	lastLimit int
}

func (m *mockGenerator) Generate(_ context.Context, keywords []string) (string, error) {
	m.keywords = keywords
	if m.err != nil {
		return "", m.err
	}
	return m.post, nil
}

func (m *mockGenerator) Hashtags(keywords []string, limit int) string {
	m.lastLimit = limit
	tags := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		tags = append(tags, "#"+strings.ReplaceAll(kw, " ", ""))
	}
	return strings.Join(tags, " ")
}

// mockKeywordService is a mock implementation of driving.KeywordService.
type mockKeywordService struct {
	entries []string
	err     error
}

func (m *mockKeywordService) Duplicates(_ context.Context, keywords []string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var dups []string
	for _, kw := range keywords {
		for _, e := range m.entries {
			if domain.NormalizeKeyword(kw) == e {
				dups = append(dups, kw)
				break
			}
		}
	}
	return dups, nil
}

func (m *mockKeywordService) Recent(_ context.Context, n int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.entries) > n {
		return m.entries[len(m.entries)-n:], nil
	}
	return m.entries, nil
}

func (m *mockKeywordService) All(_ context.Context) ([]string, error) {
	return m.entries, m.err
}

// Verify interface compliance.
var (
	_ driving.ContentGenerator = (*mockGenerator)(nil)
	_ driving.KeywordService   = (*mockKeywordService)(nil)
)
