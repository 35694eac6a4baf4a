package driving

import "context"

// KeywordService answers questions about previously published keywords.
type KeywordService interface {
	// Duplicates returns the keywords that were published before, in input order.
	Duplicates(ctx context.Context, keywords []string) ([]string, error)

	// Recent returns up to n of the most recently recorded keywords, oldest first.
	Recent(ctx context.Context, n int) ([]string, error)

	// All returns every recorded keyword in insertion order.
	All(ctx context.Context) ([]string, error)
}
