// Package result provides the published post view for the TUI.
package result

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// View shows the outcome of a publish.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	workflow driving.PublishWorkflow

	result *domain.PublishResult
	err    error

	width  int
	height int
}

// NewView creates the result view.
func NewView(s *styles.Styles, km *keymap.KeyMap, workflow driving.PublishWorkflow) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		workflow: workflow,
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult sets the publish result to display.
func (v *View) SetResult(result *domain.PublishResult) {
	v.result = result
	v.err = nil
}

// Update handles messages for the result view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.NewPost):
			if err := v.workflow.Reset(); err != nil {
				v.err = err
				return v, nil
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewCompose}
			}
		case keyStr == "q":
			return v, func() tea.Msg { return messages.Quit{} }
		}
	}
	return v, nil
}

// View renders the result view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Success.Render("Published"))
	b.WriteString("\n\n")

	if v.result != nil {
		b.WriteString(v.styles.Label.Render("Post"))
		b.WriteString(v.styles.Normal.Render(v.result.PostID))
		b.WriteString("\n")
		b.WriteString(v.styles.Label.Render("At"))
		b.WriteString(v.styles.Normal.Render(v.result.PublishedAt.Local().Format(time.RFC1123)))
		b.WriteString("\n")
		if v.result.Media != "" {
			b.WriteString(v.styles.Label.Render("Image"))
			b.WriteString(v.styles.Normal.Render(string(v.result.Media)))
			b.WriteString("\n")
		}
		if len(v.result.UnrecordedKeywords) > 0 {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render(
				"Not recorded in the ledger: " + strings.Join(v.result.UnrecordedKeywords, ", ")))
			b.WriteString("\n")
		}
	}

	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
	}
	b.WriteString("\n" + v.styles.Help.Render("[enter] new post  [q] quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Result returns the displayed result.
func (v *View) Result() *domain.PublishResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
