package driven

import "context"

// KeywordLedger is the append-only record of keywords that have been published.
// Lookups are case-insensitive; writes store the normalised keyword and do not
// deduplicate.
type KeywordLedger interface {
	// Contains reports whether the keyword was recorded before.
	Contains(ctx context.Context, keyword string) (bool, error)

	// Append records a keyword. Duplicates are permitted in storage.
	Append(ctx context.Context, keyword string) error

	// List returns all recorded keywords in insertion order.
	List(ctx context.Context) ([]string, error)
}
