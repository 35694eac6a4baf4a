// Package tui provides an interactive terminal user interface for postcraft.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// LedgerWatcher reports changes to the keyword ledger made by other processes.
type LedgerWatcher interface {
	Watch(ctx context.Context, onChange func(keywords []string)) error
}

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workflow drives authentication, drafting and publishing.
	Workflow driving.PublishWorkflow

	// Keywords lists previously published keywords.
	Keywords driving.KeywordService

	// Watcher refreshes recent keywords when the ledger changes. Optional.
	Watcher LedgerWatcher

	// OpenURL launches a browser. Optional.
	OpenURL func(url string) error
}

// NewPorts creates a Ports aggregate with the required services.
func NewPorts(workflow driving.PublishWorkflow, keywords driving.KeywordService) *Ports {
	return &Ports{
		Workflow: workflow,
		Keywords: keywords,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Workflow == nil {
		return ErrMissingWorkflow
	}
	if p.Keywords == nil {
		return ErrMissingKeywordService
	}
	return nil
}
