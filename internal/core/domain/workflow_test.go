package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowState_String(t *testing.T) {
	tests := []struct {
		state WorkflowState
		want  string
	}{
		{WorkflowIdle, "idle"},
		{WorkflowAwaitingAuth, "awaiting_auth"},
		{WorkflowDrafting, "drafting"},
		{WorkflowPreviewing, "previewing"},
		{WorkflowPublishing, "publishing"},
		{WorkflowCompleted, "completed"},
		{WorkflowState(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestWorkflowState_Description(t *testing.T) {
	assert.Equal(t, "Published", WorkflowCompleted.Description())
	assert.Equal(t, "Unknown", WorkflowState(-1).Description())
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", SessionUnauthenticated.String())
	assert.Equal(t, "authorizing", SessionAuthorizing.String())
	assert.Equal(t, "authenticated", SessionAuthenticated.String())
	assert.Equal(t, "unknown", SessionState(7).String())
}
