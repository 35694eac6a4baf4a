package mcp

import (
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
//
// Publishing is deliberately absent: the LinkedIn credential only exists
// inside an interactive process.
type Ports struct {
	// Generator drafts posts and builds hashtags.
	Generator driving.ContentGenerator

	// Keywords queries the keyword ledger.
	Keywords driving.KeywordService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	if p.Keywords == nil {
		return ErrMissingKeywordService
	}
	return nil
}
