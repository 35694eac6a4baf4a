package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
)

// Ensure KeywordLedger implements the interface.
var _ driven.KeywordLedger = (*KeywordLedger)(nil)

// KeywordLedger is an in-memory implementation of driven.KeywordLedger.
type KeywordLedger struct {
	mu      sync.RWMutex
	entries []string
}

// NewKeywordLedger creates a ledger seeded with the given entries.
func NewKeywordLedger(seed ...string) *KeywordLedger {
	l := &KeywordLedger{}
	for _, kw := range seed {
		l.entries = append(l.entries, domain.NormalizeKeyword(kw))
	}
	return l
}

// Contains reports whether the keyword was recorded, ignoring case.
func (l *KeywordLedger) Contains(_ context.Context, keyword string) (bool, error) {
	needle := domain.NormalizeKeyword(keyword)
	if needle == "" {
		return false, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if strings.EqualFold(e, needle) {
			return true, nil
		}
	}
	return false, nil
}

// Append records the normalized keyword.
func (l *KeywordLedger) Append(_ context.Context, keyword string) error {
	kw := domain.NormalizeKeyword(keyword)
	if kw == "" {
		return domain.ErrInvalidInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, kw)
	return nil
}

// List returns all entries in insertion order.
func (l *KeywordLedger) List(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.entries...), nil
}
