package services

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// Ensure KeywordService implements the interface.
var _ driving.KeywordService = (*KeywordService)(nil)

// DefaultRecentKeywords is how many ledger entries the UIs show.
const DefaultRecentKeywords = domain.DefaultRecentKeywords

// KeywordService answers duplicate and history queries against the ledger.
type KeywordService struct {
	ledger driven.KeywordLedger
}

// NewKeywordService creates a keyword service.
func NewKeywordService(ledger driven.KeywordLedger) *KeywordService {
	return &KeywordService{ledger: ledger}
}

// Duplicates returns keywords already in the ledger, as typed and in input order.
func (s *KeywordService) Duplicates(ctx context.Context, keywords []string) ([]string, error) {
	var dups []string
	seen := make(map[string]bool)
	for _, kw := range domain.CleanKeywords(keywords) {
		norm := domain.NormalizeKeyword(kw)
		if seen[norm] {
			continue
		}
		seen[norm] = true

		found, err := s.ledger.Contains(ctx, kw)
		if err != nil {
			return nil, err
		}
		if found {
			dups = append(dups, kw)
		}
	}
	return dups, nil
}

// Recent returns the last n entries, oldest first.
func (s *KeywordService) Recent(ctx context.Context, n int) ([]string, error) {
	entries, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// All returns every entry in insertion order.
func (s *KeywordService) All(ctx context.Context) ([]string, error) {
	return s.ledger.List(ctx)
}
