package tui

import "errors"

// ErrMissingWorkflow is returned when the publish workflow is not provided.
var ErrMissingWorkflow = errors.New("tui: publish workflow is required")

// ErrMissingKeywordService is returned when the keyword service is not provided.
var ErrMissingKeywordService = errors.New("tui: keyword service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
