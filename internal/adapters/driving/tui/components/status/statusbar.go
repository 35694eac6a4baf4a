// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// Bar displays the workflow state and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   domain.WorkflowState
	view    messages.ViewType
	message string
	isError bool
	busy    bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.WorkflowIdle,
		view:   messages.ViewAuth,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// passive, driven by setters
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	state := s.styles.Subtitle.Render(s.state.Description())
	switch {
	case s.isError && s.message != "":
		return state + " " + s.styles.Error.Render("Error: "+s.message)
	case s.busy && s.message != "":
		return state + " " + s.styles.Muted.Render(s.message+"...")
	case s.message != "":
		return state + " " + s.styles.Normal.Render(s.message)
	}
	return state
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.view {
	case messages.ViewAuth:
		bindings = s.keymap.AuthHelp()
	case messages.ViewCompose:
		bindings = s.keymap.ComposeHelp()
	case messages.ViewPreview:
		bindings = s.keymap.PreviewHelp()
	case messages.ViewResult:
		bindings = s.keymap.ResultHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the workflow state shown on the left.
func (s *Bar) SetState(state domain.WorkflowState) {
	s.state = state
}

// State returns the displayed workflow state.
func (s *Bar) State() domain.WorkflowState {
	return s.state
}

// SetView selects the keybinding hints.
func (s *Bar) SetView(view messages.ViewType) {
	s.view = view
}

// SetMessage shows an informational message.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.isError = false
	s.busy = false
}

// SetBusy shows an in-progress message.
func (s *Bar) SetBusy(message string) {
	s.message = message
	s.isError = false
	s.busy = true
}

// SetError shows err, or clears the message when err is nil.
func (s *Bar) SetError(err error) {
	s.busy = false
	if err == nil {
		s.message = ""
		s.isError = false
		return
	}
	s.message = err.Error()
	s.isError = true
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// IsError reports whether the message is an error.
func (s *Bar) IsError() bool {
	return s.isError
}

// Busy reports whether an operation is in progress.
func (s *Bar) Busy() bool {
	return s.busy
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the message.
func (s *Bar) Clear() {
	s.message = ""
	s.isError = false
	s.busy = false
}
