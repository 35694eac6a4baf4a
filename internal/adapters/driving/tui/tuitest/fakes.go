// Package tuitest provides in-memory driving ports for TUI tests.
package tuitest

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

var (
	_ driving.PublishWorkflow = (*Workflow)(nil)
	_ driving.KeywordService  = (*Keywords)(nil)
)

// Workflow is a scripted PublishWorkflow. Zero values succeed.
type Workflow struct {
	mu sync.Mutex

	Authenticated bool
	CurrentState  domain.WorkflowState

	URL        string
	URLErr     error
	AuthErr    error
	Duplicates []string
	DraftErr   error
	EditErr    error
	PublishErr error
	// PublishState is entered when Publish fails.
	PublishState domain.WorkflowState
	ResetErr     error

	Calls      []string
	LastCode   string
	LastDraft  *domain.DraftPost
	EditedBody string
}

// State returns the scripted state.
func (w *Workflow) State() domain.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.CurrentState
}

// Start leaves Idle based on Authenticated.
func (w *Workflow) Start() domain.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "start")
	if w.CurrentState == domain.WorkflowIdle {
		if w.Authenticated {
			w.CurrentState = domain.WorkflowDrafting
		} else {
			w.CurrentState = domain.WorkflowAwaitingAuth
		}
	}
	return w.CurrentState
}

// AuthorizationURL returns URL or URLErr.
func (w *Workflow) AuthorizationURL() (string, error) {
	w.Start()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "authorization_url")
	return w.URL, w.URLErr
}

// Authenticate records code and moves to Drafting unless AuthErr is set.
func (w *Workflow) Authenticate(_ context.Context, code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "authenticate")
	w.LastCode = code
	if w.AuthErr != nil {
		return w.AuthErr
	}
	w.Authenticated = true
	w.CurrentState = domain.WorkflowDrafting
	return nil
}

// CheckKeywords returns Duplicates.
func (w *Workflow) CheckKeywords(_ context.Context, _ []string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "check_keywords")
	return w.Duplicates, nil
}

// Draft builds a draft from keywords unless DraftErr is set.
func (w *Workflow) Draft(
	_ context.Context,
	keywords []string,
	image []byte,
	imageName string,
) (*domain.DraftPost, []string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "draft")
	if w.DraftErr != nil {
		w.CurrentState = domain.WorkflowDrafting
		w.LastDraft = nil
		return nil, w.Duplicates, w.DraftErr
	}
	w.LastDraft = &domain.DraftPost{
		ID:            "draft-1",
		Body:          "Post about " + keywords[0],
		GeneratedBody: "Post about " + keywords[0],
		Keywords:      keywords,
		Image:         image,
		ImageName:     imageName,
		CreatedAt:     time.Now(),
	}
	w.CurrentState = domain.WorkflowPreviewing
	return w.LastDraft.Clone(), w.Duplicates, nil
}

// Edit records body.
func (w *Workflow) Edit(body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "edit")
	if w.EditErr != nil {
		return w.EditErr
	}
	w.EditedBody = body
	return nil
}

// Current returns the last draft.
func (w *Workflow) Current() *domain.DraftPost {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.LastDraft == nil {
		return nil
	}
	return w.LastDraft.Clone()
}

// Publish completes unless PublishErr is set.
func (w *Workflow) Publish(_ context.Context) (*domain.PublishResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "publish")
	if w.PublishErr != nil {
		w.CurrentState = w.PublishState
		return nil, w.PublishErr
	}
	w.CurrentState = domain.WorkflowCompleted
	return &domain.PublishResult{
		PostID:      "urn:li:share:1",
		PublishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

// Reset returns to Drafting unless ResetErr is set.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "reset")
	if w.ResetErr != nil {
		return w.ResetErr
	}
	w.LastDraft = nil
	w.CurrentState = domain.WorkflowDrafting
	return nil
}

// Disconnect returns to Idle.
func (w *Workflow) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Calls = append(w.Calls, "disconnect")
	w.Authenticated = false
	w.LastDraft = nil
	w.CurrentState = domain.WorkflowIdle
}

// Called reports whether name was recorded.
func (w *Workflow) Called(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.Calls {
		if c == name {
			return true
		}
	}
	return false
}

// Keywords is a KeywordService over a fixed ledger.
type Keywords struct {
	Entries []string
	Err     error
}

// Duplicates returns keywords present in Entries.
func (k *Keywords) Duplicates(_ context.Context, keywords []string) ([]string, error) {
	if k.Err != nil {
		return nil, k.Err
	}
	var dups []string
	for _, kw := range keywords {
		for _, e := range k.Entries {
			if domain.NormalizeKeyword(kw) == e {
				dups = append(dups, kw)
				break
			}
		}
	}
	return dups, nil
}

// Recent returns the last n entries.
func (k *Keywords) Recent(_ context.Context, n int) ([]string, error) {
	if k.Err != nil {
		return nil, k.Err
	}
	if len(k.Entries) > n {
		return k.Entries[len(k.Entries)-n:], nil
	}
	return k.Entries, nil
}

// All returns every entry.
func (k *Keywords) All(_ context.Context) ([]string, error) {
	return k.Entries, k.Err
}
