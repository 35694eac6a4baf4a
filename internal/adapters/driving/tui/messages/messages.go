// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAuth collects the LinkedIn authorization code.
	ViewAuth ViewType = iota
	// ViewCompose collects keywords and an optional image.
	ViewCompose
	// ViewPreview shows the editable draft.
	ViewPreview
	// ViewResult shows the published post.
	ViewResult
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAuth:
		return "auth"
	case ViewCompose:
		return "compose"
	case ViewPreview:
		return "preview"
	case ViewResult:
		return "result"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AuthURLReady carries the authorization URL for the auth view.
type AuthURLReady struct {
	URL string
	Err error
}

// AuthCompleted signals the code exchange finished.
type AuthCompleted struct {
	Err error
}

// DuplicatesChecked carries the ledger check run before drafting.
type DuplicatesChecked struct {
	Keywords   []string
	Duplicates []string
}

// DraftGenerated carries a new draft or the generation failure.
type DraftGenerated struct {
	Draft    *domain.DraftPost
	Warnings []string
	Err      error
}

// Published carries the publish outcome.
type Published struct {
	Result *domain.PublishResult
	Err    error
}

// RecentKeywordsLoaded carries the latest ledger entries.
type RecentKeywordsLoaded struct {
	Keywords []string
	Err      error
}

// KeywordsChanged is sent by the ledger watcher with the full ledger.
type KeywordsChanged struct {
	Keywords []string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
