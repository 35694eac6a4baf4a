package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// workflowFixture wires a workflow with in-memory collaborators.
type workflowFixture struct {
	workflow  *PublishWorkflow
	session   *OAuthSession
	exchanger *mockExchanger
	llm       *mockLLM
	publisher *mockPublisher
	ledger    *memory.KeywordLedger
}

func newWorkflowFixture(t *testing.T, ledger driven.KeywordLedger) *workflowFixture {
	t.Helper()
	f := &workflowFixture{
		exchanger: &mockExchanger{cred: &domain.Credential{AccessToken: "tok", TokenType: "Bearer"}},
		llm:       &mockLLM{reply: "Ideas move teams forward.\n\n" + BuildHashtags([]string{"AI", "innovation"}, 20)},
		publisher: newMockPublisher(),
		ledger:    memory.NewKeywordLedger(),
	}
	if ledger == nil {
		ledger = f.ledger
	}
	f.session = newTestSession(f.exchanger)
	f.workflow = NewPublishWorkflow(
		f.session,
		NewContentGenerator(f.llm, nil),
		f.publisher,
		ledger,
		WithStepTimeout(time.Second),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
	return f
}

// authenticated moves the fixture to Drafting.
func (f *workflowFixture) authenticated(t *testing.T) {
	t.Helper()
	_, err := f.workflow.AuthorizationURL()
	require.NoError(t, err)
	require.NoError(t, f.workflow.Authenticate(context.Background(), "code"))
	require.Equal(t, domain.WorkflowDrafting, f.workflow.State())
}

// previewing moves the fixture to Previewing with a generated draft.
func (f *workflowFixture) previewing(t *testing.T, keywords []string, image []byte) *domain.DraftPost {
	t.Helper()
	f.authenticated(t)
	draft, _, err := f.workflow.Draft(context.Background(), keywords, image, "")
	require.NoError(t, err)
	require.Equal(t, domain.WorkflowPreviewing, f.workflow.State())
	return draft
}

func TestPublishWorkflow_Start(t *testing.T) {
	t.Run("without credential", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		assert.Equal(t, domain.WorkflowIdle, f.workflow.State())
		assert.Equal(t, domain.WorkflowAwaitingAuth, f.workflow.Start())
	})

	t.Run("with credential", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		require.NoError(t, f.session.Exchange(context.Background(), "code"))
		assert.Equal(t, domain.WorkflowDrafting, f.workflow.Start())
	})

	t.Run("no effect outside idle", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.previewing(t, []string{"ai"}, nil)
		assert.Equal(t, domain.WorkflowPreviewing, f.workflow.Start())
	})
}

func TestPublishWorkflow_AuthorizationURL(t *testing.T) {
	f := newWorkflowFixture(t, nil)

	authURL, err := f.workflow.AuthorizationURL()

	require.NoError(t, err)
	assert.Contains(t, authURL, "state=state-1")
	assert.Equal(t, domain.WorkflowAwaitingAuth, f.workflow.State())
	assert.Equal(t, domain.SessionAuthorizing, f.session.State())
}

func TestPublishWorkflow_ScenarioFullPublishWithoutImage(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.authenticated(t)
	ctx := context.Background()

	draft, warnings, err := f.workflow.Draft(ctx, []string{"AI", "innovation"}, nil, "")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, strings.TrimSpace(draft.Body))
	assert.GreaterOrEqual(t, strings.Count(draft.Body, "#"), 20)
	assert.NotEmpty(t, draft.ID)
	assert.False(t, draft.HasImage())

	result, err := f.workflow.Publish(ctx)

	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:7000", result.PostID)
	assert.Empty(t, result.Media)
	assert.Empty(t, result.UnrecordedKeywords)
	assert.Equal(t, domain.WorkflowCompleted, f.workflow.State())
	assert.Equal(t, []string{"identity", "publish"}, f.publisher.calls)
	assert.Nil(t, f.publisher.publishedMedia)

	entries, _ := f.ledger.List(ctx)
	assert.Equal(t, []string{"ai", "innovation"}, entries)
}

func TestPublishWorkflow_ScenarioRepeatedKeywordsWarnButPublish(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	ctx := context.Background()
	f.previewing(t, []string{"AI", "innovation"}, nil)
	_, err := f.workflow.Publish(ctx)
	require.NoError(t, err)
	require.NoError(t, f.workflow.Reset())

	dups, err := f.workflow.CheckKeywords(ctx, []string{"AI", "innovation"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "innovation"}, dups)

	_, warnings, err := f.workflow.Draft(ctx, []string{"AI", "innovation"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "innovation"}, warnings)

	_, err = f.workflow.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCompleted, f.workflow.State())
}

func TestPublishWorkflow_ScenarioTokenExchangeFails(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.exchanger.err = errors.New("token endpoint returned 400")
	_, err := f.workflow.AuthorizationURL()
	require.NoError(t, err)

	err = f.workflow.Authenticate(context.Background(), "bad-code")

	assert.ErrorIs(t, err, domain.ErrAuthExchange)
	assert.Equal(t, domain.SessionUnauthenticated, f.session.State())
	assert.Equal(t, domain.WorkflowAwaitingAuth, f.workflow.State())

	// The user can retry with a fresh authorization request.
	f.exchanger.err = nil
	_, err = f.workflow.AuthorizationURL()
	require.NoError(t, err)
	require.NoError(t, f.workflow.Authenticate(context.Background(), "good-code"))
	assert.Equal(t, domain.WorkflowDrafting, f.workflow.State())
}

func TestPublishWorkflow_ScenarioUploadFails(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, []byte{0x89, 'P', 'N', 'G'})
	f.publisher.uploadErr = fmt.Errorf("%w: upload returned 500", domain.ErrUpload)

	_, err := f.workflow.Publish(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpload)
	assert.Equal(t, domain.WorkflowPreviewing, f.workflow.State())
	assert.Equal(t, []string{"identity", "upload"}, f.publisher.calls, "no publish after failed upload")
	entries, _ := f.ledger.List(context.Background())
	assert.Empty(t, entries)
	assert.NotNil(t, f.workflow.Current(), "draft survives for retry")
}

func TestPublishWorkflow_PublishFailureLeavesLedgerUnchanged(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI", "innovation"}, nil)
	f.publisher.publishErr = errors.New("status 422")

	_, err := f.workflow.Publish(context.Background())

	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Equal(t, domain.WorkflowPreviewing, f.workflow.State())
	entries, _ := f.ledger.List(context.Background())
	assert.Empty(t, entries)
}

func TestPublishWorkflow_IdentityFailure(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, []byte("img"))
	f.publisher.identityErr = errors.New("status 500")

	_, err := f.workflow.Publish(context.Background())

	assert.ErrorIs(t, err, domain.ErrIdentityFetch)
	assert.Equal(t, domain.WorkflowPreviewing, f.workflow.State())
	assert.Equal(t, []string{"identity"}, f.publisher.calls)
}

func TestPublishWorkflow_ExpiredCredentialDisconnects(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, nil)
	f.publisher.publishErr = fmt.Errorf("%w: %w: status 401", domain.ErrPublish, domain.ErrAuthExpired)

	_, err := f.workflow.Publish(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthExchange)
	assert.ErrorIs(t, err, domain.ErrAuthExpired)
	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Equal(t, domain.WorkflowIdle, f.workflow.State())
	assert.Equal(t, domain.SessionUnauthenticated, f.session.State())
	assert.Nil(t, f.workflow.Current())
}

func TestPublishWorkflow_PublishWithImage(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	image := []byte{1, 2, 3}
	f.previewing(t, []string{"AI"}, image)

	result, err := f.workflow.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"identity", "upload", "publish"}, f.publisher.calls)
	assert.Equal(t, image, f.publisher.uploadedBytes)
	assert.Equal(t, domain.PersonID("abc123"), f.publisher.uploadOwner)
	require.NotNil(t, f.publisher.publishedMedia)
	assert.Equal(t, f.publisher.media, *f.publisher.publishedMedia)
	assert.Equal(t, f.publisher.media, result.Media)
}

func TestPublishWorkflow_PublishLogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, []byte{1, 2, 3})

	_, err := f.workflow.Publish(context.Background())

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[DEBUG] === Publishing ===\n")
	assert.Contains(t, out, "[DEBUG] Uploaded image asset=urn:li:image:C4E10AQ step=upload\n")
	assert.Contains(t, out, "[INFO] Published post keywords=1 post_id=urn:li:share:7000 step=publish\n")
}

func TestPublishWorkflow_EditedBodyIsPublished(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	draft := f.previewing(t, []string{"AI"}, nil)

	require.NoError(t, f.workflow.Edit("My own words. #AI"))
	current := f.workflow.Current()
	assert.Equal(t, draft.GeneratedBody, current.GeneratedBody)
	assert.True(t, current.Edited())

	_, err := f.workflow.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "My own words. #AI", f.publisher.publishedBody)
}

func TestPublishWorkflow_Edit_Errors(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	assert.ErrorIs(t, f.workflow.Edit("text"), domain.ErrInvalidTransition)

	f.previewing(t, []string{"AI"}, nil)
	assert.ErrorIs(t, f.workflow.Edit("   "), domain.ErrInvalidInput)
}

func TestPublishWorkflow_Draft_Transitions(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		_, _, err := f.workflow.Draft(context.Background(), []string{"AI"}, nil, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("no keywords", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.authenticated(t)
		_, _, err := f.workflow.Draft(context.Background(), []string{" "}, nil, "")
		assert.ErrorIs(t, err, domain.ErrNoKeywords)
		assert.Equal(t, domain.WorkflowDrafting, f.workflow.State())
	})

	t.Run("generation failure stays drafting", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.authenticated(t)
		f.llm.err = errors.New("backend down")
		_, _, err := f.workflow.Draft(context.Background(), []string{"AI"}, nil, "")
		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.Equal(t, domain.WorkflowDrafting, f.workflow.State())
	})

	t.Run("regenerate failure returns to drafting", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.previewing(t, []string{"AI"}, nil)
		f.llm.reply = ""
		_, _, err := f.workflow.Draft(context.Background(), []string{"AI"}, nil, "")
		assert.ErrorIs(t, err, domain.ErrGeneration)
		assert.Equal(t, domain.WorkflowDrafting, f.workflow.State())
		assert.Nil(t, f.workflow.Current())

		_, err = f.workflow.Publish(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("regenerate replaces draft", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		first := f.previewing(t, []string{"AI"}, nil)
		f.llm.reply = "Second take."
		second, _, err := f.workflow.Draft(context.Background(), []string{"cloud"}, nil, "")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.True(t, strings.HasPrefix(second.Body, "Second take."))
		assert.Equal(t, []string{"cloud"}, second.Keywords)
	})

	t.Run("ledger errors do not block drafting", func(t *testing.T) {
		ledger := &failingLedger{KeywordLedger: memory.NewKeywordLedger(), containsErr: errors.New("locked")}
		f := newWorkflowFixture(t, ledger)
		f.authenticated(t)
		_, warnings, err := f.workflow.Draft(context.Background(), []string{"AI"}, nil, "")
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})
}

func TestPublishWorkflow_Current_ReturnsCopy(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, []byte{1})

	c := f.workflow.Current()
	c.Body = "mutated"
	c.Image[0] = 9

	assert.NotEqual(t, "mutated", f.workflow.Current().Body)
	assert.Equal(t, byte(1), f.workflow.Current().Image[0])
}

func TestPublishWorkflow_AppendFailureReported(t *testing.T) {
	ledger := &failingLedger{
		KeywordLedger: memory.NewKeywordLedger(),
		appendErr:     errors.New("read-only file system"),
		failOn:        map[string]bool{"innovation": true},
	}
	f := newWorkflowFixture(t, ledger)
	f.previewing(t, []string{"AI", "innovation"}, nil)

	result, err := f.workflow.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"innovation"}, result.UnrecordedKeywords)
	assert.Equal(t, domain.WorkflowCompleted, f.workflow.State())
	entries, _ := ledger.List(context.Background())
	assert.Equal(t, []string{"ai"}, entries)
}

func TestPublishWorkflow_Publish_Guards(t *testing.T) {
	t.Run("not previewing", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.authenticated(t)
		_, err := f.workflow.Publish(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, f.publisher.calls)
	})

	t.Run("session lost", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.previewing(t, []string{"AI"}, nil)
		f.session.Disconnect()
		_, err := f.workflow.Publish(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		assert.Equal(t, domain.WorkflowIdle, f.workflow.State())
		assert.Empty(t, f.publisher.calls)
	})
}

func TestPublishWorkflow_ResetKeepsCredentialAndLedger(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, nil)
	_, err := f.workflow.Publish(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.workflow.Reset())

	assert.Equal(t, domain.WorkflowDrafting, f.workflow.State())
	assert.Nil(t, f.workflow.Current())
	assert.Equal(t, domain.SessionAuthenticated, f.session.State())
	found, _ := f.ledger.Contains(context.Background(), "ai")
	assert.True(t, found)

	assert.ErrorIs(t, f.workflow.Reset(), domain.ErrInvalidTransition)
}

func TestPublishWorkflow_Disconnect(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.previewing(t, []string{"AI"}, nil)

	f.workflow.Disconnect()

	assert.Equal(t, domain.WorkflowIdle, f.workflow.State())
	assert.Nil(t, f.workflow.Current())
	assert.Equal(t, domain.SessionUnauthenticated, f.session.State())
}

func TestPublishWorkflow_StepTimeout(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.workflow.stepTimeout = time.Millisecond
	f.previewing(t, []string{"AI"}, nil)
	f.workflow.publisher = &slowPublisher{mockPublisher: f.publisher}

	_, err := f.workflow.Publish(context.Background())

	assert.ErrorIs(t, err, domain.ErrIdentityFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.WorkflowPreviewing, f.workflow.State())
}

// slowPublisher blocks identity lookups until the context ends.
type slowPublisher struct {
	*mockPublisher
}

func (s *slowPublisher) FetchIdentity(ctx context.Context, _ *domain.Credential) (domain.PersonID, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
