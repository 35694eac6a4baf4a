package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoKeywords indicates a draft was requested without keywords.
	ErrNoKeywords = errors.New("no keywords given")

	// ErrInvalidTransition indicates an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrConfiguration indicates required credentials or config values are missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrLLMUnavailable indicates the text generation backend is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Workflow step errors.

	// ErrGeneration indicates the text generation call failed or returned nothing.
	ErrGeneration = errors.New("content generation failed")

	// ErrAuthExchange indicates the authorization code exchange failed.
	ErrAuthExchange = errors.New("token exchange failed")

	// ErrIdentityFetch indicates the identity endpoint did not return a subject.
	ErrIdentityFetch = errors.New("identity fetch failed")

	// ErrUpload indicates either media upload sub-step failed.
	ErrUpload = errors.New("media upload failed")

	// ErrPublish indicates the publish call did not return created.
	ErrPublish = errors.New("publish failed")

	// Authentication Errors.

	// ErrNotAuthenticated indicates an operation needs a credential but none is held.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthExpired indicates the provider rejected the credential.
	ErrAuthExpired = errors.New("authentication expired")
)
