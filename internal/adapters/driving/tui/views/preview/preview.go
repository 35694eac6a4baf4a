// Package preview provides the draft review view for the TUI.
package preview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// maxPostLength is the LinkedIn commentary limit in characters.
const maxPostLength = 3000

// View shows the generated draft in an editable textarea.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	workflow driving.PublishWorkflow
	ctx      context.Context

	editor   textarea.Model
	spinner  spinner.Model
	draft    *domain.DraftPost
	warnings []string

	busy      bool
	busyLabel string
	err       error

	width  int
	height int
}

// NewView creates the preview view.
func NewView(s *styles.Styles, km *keymap.KeyMap, workflow driving.PublishWorkflow) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(12)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:   s,
		keymap:   km,
		workflow: workflow,
		ctx:      context.Background(),
		editor:   ta,
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for workflow calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the editor.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.editor.Focus(), textarea.Blink)
}

// SetDraft loads draft into the editor.
func (v *View) SetDraft(draft *domain.DraftPost, warnings []string) {
	v.draft = draft
	v.warnings = warnings
	v.err = nil
	v.busy = false
	if draft != nil {
		v.editor.SetValue(draft.Body)
	}
}

// Update handles messages for the preview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.Published:
		v.busy = false
		v.err = msg.Err
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.busy || v.draft == nil {
		return v, nil
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Publish):
		return v, v.startBusy("Publishing", v.publish(v.editor.Value()))
	case keymap.Matches(keyStr, v.keymap.Regenerate):
		return v, v.startBusy("Regenerating", v.regenerate())
	case keymap.Matches(keyStr, v.keymap.Back):
		if err := v.workflow.Reset(); err != nil {
			v.err = err
			return v, nil
		}
		v.draft = nil
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewCompose}
		}
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) startBusy(label string, cmd tea.Cmd) tea.Cmd {
	v.busy = true
	v.busyLabel = label
	v.err = nil
	return tea.Batch(cmd, v.spinner.Tick)
}

func (v *View) publish(body string) tea.Cmd {
	ctx := v.ctx
	workflow := v.workflow
	return func() tea.Msg {
		if err := workflow.Edit(body); err != nil {
			return messages.Published{Err: err}
		}
		result, err := workflow.Publish(ctx)
		return messages.Published{Result: result, Err: err}
	}
}

func (v *View) regenerate() tea.Cmd {
	ctx := v.ctx
	workflow := v.workflow
	draft := v.draft
	return func() tea.Msg {
		next, warnings, err := workflow.Draft(ctx, draft.Keywords, draft.Image, draft.ImageName)
		return messages.DraftGenerated{Draft: next, Warnings: warnings, Err: err}
	}
}

// View renders the preview view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Preview"))
	if v.draft != nil {
		b.WriteString(v.styles.Muted.Render("  " + strings.Join(v.draft.Keywords, ", ")))
	}
	b.WriteString("\n\n")

	if len(v.warnings) > 0 {
		b.WriteString(v.styles.Warning.Render("Posted before: " + strings.Join(v.warnings, ", ")))
		b.WriteString("\n")
	}
	if v.draft != nil && v.draft.HasImage() {
		b.WriteString(v.styles.Normal.Render("Image: " + v.draft.ImageName))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Preview.Render(v.editor.View()))
	b.WriteString("\n")

	count := utf8.RuneCountInString(v.editor.Value())
	counter := fmt.Sprintf("%d/%d", count, maxPostLength)
	if count > maxPostLength {
		b.WriteString(v.styles.Error.Render(counter))
	} else {
		b.WriteString(v.styles.Muted.Render(counter))
	}
	b.WriteString("\n")

	if v.busy {
		b.WriteString("\n" + v.spinner.View() + " " + v.busyLabel + "...\n")
	}
	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	w := width - 10
	if w < 20 {
		w = 20
	}
	h := height - 14
	if h < 5 {
		h = 5
	}
	v.editor.SetWidth(w)
	v.editor.SetHeight(h)
}

// Draft returns the draft under review.
func (v *View) Draft() *domain.DraftPost {
	return v.draft
}

// Body returns the edited text.
func (v *View) Body() string {
	return v.editor.Value()
}

// Busy reports whether a workflow call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
