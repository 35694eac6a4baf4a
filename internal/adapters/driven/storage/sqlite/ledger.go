package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
)

// keywordLedger implements driven.KeywordLedger over the posted_keywords table.
type keywordLedger struct {
	store *Store
}

var _ driven.KeywordLedger = (*keywordLedger)(nil)

// Contains reports whether the normalized keyword has a row.
func (l *keywordLedger) Contains(ctx context.Context, keyword string) (bool, error) {
	normalized := domain.NormalizeKeyword(keyword)
	if normalized == "" {
		return false, nil
	}

	var exists bool
	err := l.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM posted_keywords WHERE keyword = ?)", normalized,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("querying keyword: %w", err)
	}
	return exists, nil
}

// Append inserts a row, keyed by a fresh uuid, for the normalized keyword.
func (l *keywordLedger) Append(ctx context.Context, keyword string) error {
	normalized := domain.NormalizeKeyword(keyword)
	if normalized == "" {
		return fmt.Errorf("%w: empty keyword", domain.ErrInvalidInput)
	}

	_, err := l.store.db.ExecContext(ctx,
		"INSERT INTO posted_keywords (id, keyword, posted_at) VALUES (?, ?, ?)",
		uuid.NewString(), normalized, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting keyword: %w", err)
	}
	return nil
}

// List returns every keyword in insertion order.
func (l *keywordLedger) List(ctx context.Context) ([]string, error) {
	rows, err := l.store.db.QueryContext(ctx, "SELECT keyword FROM posted_keywords ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}
