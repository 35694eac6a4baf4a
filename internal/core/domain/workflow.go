package domain

// WorkflowState is the state of the publish workflow.
type WorkflowState int

const (
	// WorkflowIdle is the initial state and the state after auth is lost.
	WorkflowIdle WorkflowState = iota
	// WorkflowAwaitingAuth waits for the OAuth session to authenticate.
	WorkflowAwaitingAuth
	// WorkflowDrafting collects keywords and generates content.
	WorkflowDrafting
	// WorkflowPreviewing shows the draft for editing and approval.
	WorkflowPreviewing
	// WorkflowPublishing runs upload and publish calls.
	WorkflowPublishing
	// WorkflowCompleted is reached after a successful publish.
	WorkflowCompleted
)

// String returns the string representation of the workflow state.
func (s WorkflowState) String() string {
	switch s {
	case WorkflowIdle:
		return "idle"
	case WorkflowAwaitingAuth:
		return "awaiting_auth"
	case WorkflowDrafting:
		return "drafting"
	case WorkflowPreviewing:
		return "previewing"
	case WorkflowPublishing:
		return "publishing"
	case WorkflowCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Description returns a human-readable description of the state.
func (s WorkflowState) Description() string {
	switch s {
	case WorkflowIdle:
		return "Not connected"
	case WorkflowAwaitingAuth:
		return "Waiting for LinkedIn authorization"
	case WorkflowDrafting:
		return "Ready to draft"
	case WorkflowPreviewing:
		return "Previewing draft"
	case WorkflowPublishing:
		return "Publishing"
	case WorkflowCompleted:
		return "Published"
	default:
		return unknownDescription
	}
}
