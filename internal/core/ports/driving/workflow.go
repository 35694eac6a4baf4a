package driving

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// PublishWorkflow drives a post from authentication through publishing.
// It is not safe for concurrent use.
type PublishWorkflow interface {
	// State returns the current workflow state.
	State() domain.WorkflowState

	// Start leaves Idle: to Drafting when the session is authenticated,
	// otherwise to AwaitingAuth.
	Start() domain.WorkflowState

	// AuthorizationURL begins an OAuth request and returns the URL to visit.
	AuthorizationURL() (string, error)

	// Authenticate exchanges an authorization code and moves to Drafting.
	Authenticate(ctx context.Context, code string) error

	// CheckKeywords returns keywords already in the ledger. Never blocking.
	CheckKeywords(ctx context.Context, keywords []string) ([]string, error)

	// Draft generates content and moves to Previewing. The returned warnings
	// list duplicate keywords.
	Draft(ctx context.Context, keywords []string, image []byte, imageName string) (*domain.DraftPost, []string, error)

	// Edit replaces the draft body while previewing.
	Edit(body string) error

	// Current returns a copy of the current draft, nil when there is none.
	Current() *domain.DraftPost

	// Publish uploads media (if any), publishes the draft and records keywords.
	Publish(ctx context.Context) (*domain.PublishResult, error)

	// Reset returns to Drafting from Completed, or from Previewing to discard the draft.
	Reset() error

	// Disconnect drops the credential and returns to Idle.
	Disconnect()
}
