package driving

import "context"

// ContentGenerator turns keywords into post text.
type ContentGenerator interface {
	// Generate produces a post about keywords. Fails with domain.ErrGeneration
	// when the backend errors or returns no content.
	Generate(ctx context.Context, keywords []string) (string, error)

	// Hashtags returns up to limit hashtags derived from keywords and the
	// generic tag pool, space separated.
	Hashtags(keywords []string, limit int) string
}
