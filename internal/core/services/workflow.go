package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// Ensure PublishWorkflow implements the interface.
var _ driving.PublishWorkflow = (*PublishWorkflow)(nil)

// WorkflowOption configures a PublishWorkflow.
type WorkflowOption func(*PublishWorkflow)

// WithStepTimeout bounds each network step. Zero disables the bound.
func WithStepTimeout(d time.Duration) WorkflowOption {
	return func(w *PublishWorkflow) {
		w.stepTimeout = d
	}
}

// WithClock replaces the time source used for draft and result timestamps.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *PublishWorkflow) {
		w.now = now
	}
}

// PublishWorkflow sequences authentication, drafting, review and publishing.
//
// Transitions:
//
//	Idle --Start--> AwaitingAuth | Drafting
//	AwaitingAuth --Authenticate ok--> Drafting
//	Drafting --Draft ok--> Previewing
//	Previewing --Draft ok--> Previewing, --Draft fails--> Drafting
//	Previewing --Publish--> Publishing --ok--> Completed
//	Publishing --step fails--> Previewing, --credential expired--> Idle
//	Completed, Previewing --Reset--> Drafting
//	any --Disconnect--> Idle
type PublishWorkflow struct {
	session   driving.AuthSession
	generator driving.ContentGenerator
	keywords  driving.KeywordService
	publisher driven.Publisher
	ledger    driven.KeywordLedger

	state       domain.WorkflowState
	draft       *domain.DraftPost
	stepTimeout time.Duration
	now         func() time.Time
}

// NewPublishWorkflow creates a workflow in the Idle state.
func NewPublishWorkflow(
	session driving.AuthSession,
	generator driving.ContentGenerator,
	publisher driven.Publisher,
	ledger driven.KeywordLedger,
	opts ...WorkflowOption,
) *PublishWorkflow {
	w := &PublishWorkflow{
		session:     session,
		generator:   generator,
		keywords:    NewKeywordService(ledger),
		publisher:   publisher,
		ledger:      ledger,
		state:       domain.WorkflowIdle,
		stepTimeout: domain.DefaultTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current workflow state.
func (w *PublishWorkflow) State() domain.WorkflowState {
	return w.state
}

// Start leaves Idle. Calling it in any other state has no effect.
func (w *PublishWorkflow) Start() domain.WorkflowState {
	if w.state != domain.WorkflowIdle {
		return w.state
	}
	if w.session.State() == domain.SessionAuthenticated {
		w.state = domain.WorkflowDrafting
	} else {
		w.state = domain.WorkflowAwaitingAuth
	}
	logger.Debug("Workflow started: %s", w.state)
	return w.state
}

// AuthorizationURL begins an authorization request. It starts the workflow
// when called from Idle.
func (w *PublishWorkflow) AuthorizationURL() (string, error) {
	w.Start()
	if w.state != domain.WorkflowAwaitingAuth {
		return "", w.invalidTransition("authorize")
	}
	authURL, _, err := w.session.Begin()
	if err != nil {
		return "", err
	}
	return authURL, nil
}

// Authenticate exchanges code and moves to Drafting. On failure the
// workflow keeps waiting for authorization.
func (w *PublishWorkflow) Authenticate(ctx context.Context, code string) error {
	w.Start()
	if w.state != domain.WorkflowAwaitingAuth {
		return w.invalidTransition("authenticate")
	}

	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()

	if err := w.session.Exchange(stepCtx, code); err != nil {
		return wrapKind(domain.ErrAuthExchange, err)
	}
	w.state = domain.WorkflowDrafting
	return nil
}

// CheckKeywords returns the keywords already published. Ledger errors are
// logged and reported as no duplicates.
func (w *PublishWorkflow) CheckKeywords(ctx context.Context, keywords []string) ([]string, error) {
	dups, err := w.keywords.Duplicates(ctx, keywords)
	if err != nil {
		logger.Warn("Could not check keyword history: %v", err)
		return nil, nil
	}
	return dups, nil
}

// Draft generates a post for keywords. It is valid in Drafting and, to
// regenerate, in Previewing. The returned warnings list duplicate keywords.
func (w *PublishWorkflow) Draft(
	ctx context.Context,
	keywords []string,
	image []byte,
	imageName string,
) (*domain.DraftPost, []string, error) {
	switch w.state {
	case domain.WorkflowDrafting, domain.WorkflowPreviewing:
	case domain.WorkflowIdle, domain.WorkflowAwaitingAuth:
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidTransition, domain.ErrNotAuthenticated)
	default:
		return nil, nil, w.invalidTransition("draft")
	}

	keywords = domain.CleanKeywords(keywords)
	if len(keywords) == 0 {
		return nil, nil, domain.ErrNoKeywords
	}

	warnings, _ := w.CheckKeywords(ctx, keywords)

	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()

	body, err := w.generator.Generate(stepCtx, keywords)
	if err != nil {
		w.state = domain.WorkflowDrafting
		w.draft = nil
		return nil, warnings, wrapKind(domain.ErrGeneration, err)
	}

	var img []byte
	if len(image) > 0 {
		img = append([]byte(nil), image...)
	}
	w.draft = &domain.DraftPost{
		ID:            uuid.New().String(),
		Body:          body,
		GeneratedBody: body,
		Keywords:      keywords,
		Image:         img,
		ImageName:     imageName,
		CreatedAt:     w.now(),
	}
	w.state = domain.WorkflowPreviewing
	logger.Debug("Draft %s ready (%d chars)", w.draft.ID, len(body))
	return w.draft.Clone(), warnings, nil
}

// Edit replaces the body that will be published.
func (w *PublishWorkflow) Edit(body string) error {
	if w.state != domain.WorkflowPreviewing || w.draft == nil {
		return w.invalidTransition("edit")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: post body is empty", domain.ErrInvalidInput)
	}
	w.draft.Body = body
	return nil
}

// Current returns a copy of the current draft.
func (w *PublishWorkflow) Current() *domain.DraftPost {
	if w.draft == nil {
		return nil
	}
	return w.draft.Clone()
}

// Publish resolves the author, uploads the image if any, publishes the body
// and records the keywords. Keywords are recorded only after the post was
// accepted; append failures are reported in the result, not as an error.
func (w *PublishWorkflow) Publish(ctx context.Context) (*domain.PublishResult, error) {
	if w.state != domain.WorkflowPreviewing || w.draft == nil {
		return nil, w.invalidTransition("publish")
	}
	if strings.TrimSpace(w.draft.Body) == "" {
		return nil, fmt.Errorf("%w: post body is empty", domain.ErrInvalidInput)
	}

	cred, err := w.session.Credential()
	if err != nil {
		w.state = domain.WorkflowIdle
		return nil, err
	}

	w.state = domain.WorkflowPublishing
	logger.Section("Publishing")

	person, err := w.fetchIdentity(ctx, cred)
	if err != nil {
		return nil, w.failPublish(domain.ErrIdentityFetch, err)
	}

	var media *domain.MediaReference
	if w.draft.HasImage() {
		ref, err := w.uploadMedia(ctx, cred, person)
		if err != nil {
			return nil, w.failPublish(domain.ErrUpload, err)
		}
		media = &ref
		logger.WithFields(logger.Fields{"step": "upload", "asset": ref}).Debug("Uploaded image")
	}

	result, err := w.publish(ctx, cred, person, media)
	if err != nil {
		return nil, w.failPublish(domain.ErrPublish, err)
	}
	if result.PublishedAt.IsZero() {
		result.PublishedAt = w.now()
	}
	if media != nil {
		result.Media = *media
	}
	logger.WithFields(logger.Fields{
		"step":     "publish",
		"post_id":  result.PostID,
		"keywords": len(w.draft.Keywords),
	}).Info("Published post")

	result.UnrecordedKeywords = w.recordKeywords(ctx, w.draft.Keywords)
	w.state = domain.WorkflowCompleted
	return result, nil
}

// Reset starts a new post after completion. A draft under review can also be
// discarded. The credential and the ledger are kept.
func (w *PublishWorkflow) Reset() error {
	if w.state != domain.WorkflowCompleted && w.state != domain.WorkflowPreviewing {
		return w.invalidTransition("reset")
	}
	w.draft = nil
	w.state = domain.WorkflowDrafting
	return nil
}

// Disconnect drops the credential and returns to Idle.
func (w *PublishWorkflow) Disconnect() {
	w.session.Disconnect()
	w.draft = nil
	w.state = domain.WorkflowIdle
}

func (w *PublishWorkflow) fetchIdentity(ctx context.Context, cred *domain.Credential) (domain.PersonID, error) {
	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()
	return w.publisher.FetchIdentity(stepCtx, cred)
}

func (w *PublishWorkflow) uploadMedia(
	ctx context.Context,
	cred *domain.Credential,
	person domain.PersonID,
) (domain.MediaReference, error) {
	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()
	return w.publisher.UploadMedia(stepCtx, cred, person, w.draft.Image)
}

func (w *PublishWorkflow) publish(
	ctx context.Context,
	cred *domain.Credential,
	person domain.PersonID,
	media *domain.MediaReference,
) (*domain.PublishResult, error) {
	stepCtx, cancel := w.stepContext(ctx)
	defer cancel()
	return w.publisher.Publish(stepCtx, cred, person, w.draft.Body, media)
}

func (w *PublishWorkflow) recordKeywords(ctx context.Context, keywords []string) []string {
	var unrecorded []string
	for _, kw := range keywords {
		stepCtx, cancel := w.stepContext(ctx)
		err := w.ledger.Append(stepCtx, kw)
		cancel()
		if err != nil {
			logger.Warn("Post published but keyword %q was not recorded: %v", kw, err)
			unrecorded = append(unrecorded, kw)
		}
	}
	return unrecorded
}

// failPublish maps a step failure to the next state. An expired credential
// ends the session; anything else returns to the preview.
func (w *PublishWorkflow) failPublish(kind, err error) error {
	err = wrapKind(kind, err)
	if errors.Is(err, domain.ErrAuthExpired) {
		logger.Warn("LinkedIn rejected the access token, sign in again")
		w.session.Disconnect()
		w.draft = nil
		w.state = domain.WorkflowIdle
		return wrapKind(domain.ErrAuthExchange, err)
	}
	w.state = domain.WorkflowPreviewing
	return err
}

func (w *PublishWorkflow) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.stepTimeout)
}

func (w *PublishWorkflow) invalidTransition(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", domain.ErrInvalidTransition, op, w.state)
}
