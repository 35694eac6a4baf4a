// Package compose provides the keyword entry view for the TUI.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

const (
	fieldKeywords = iota
	fieldImage
	fieldCount
)

// View collects keywords and an optional image path, warns about keywords
// that were posted before, and requests a draft.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	workflow driving.PublishWorkflow
	ctx      context.Context
	readFile func(string) ([]byte, error)

	keywords *input.Field
	image    *input.Field
	focus    int
	spinner  spinner.Model

	recent []string

	// confirmed holds keywords whose duplicate warning was shown; a second
	// submit with the same keywords drafts anyway.
	confirmed  []string
	duplicates []string

	busy bool
	err  error

	width  int
	height int
}

// NewView creates the compose view.
func NewView(s *styles.Styles, km *keymap.KeyMap, workflow driving.PublishWorkflow) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &View{
		styles:   s,
		keymap:   km,
		workflow: workflow,
		ctx:      context.Background(),
		readFile: os.ReadFile,
		keywords: input.NewField(s, "Keywords", "comma separated, e.g. golang, testing"),
		image:    input.NewField(s, "Image", "optional path to a PNG or JPEG"),
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

// Init focuses the keyword input.
func (v *View) Init() tea.Cmd {
	v.focus = fieldKeywords
	v.image.Blur()
	return tea.Batch(v.keywords.Focus(), v.keywords.Init())
}

// Update handles messages for the compose view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DuplicatesChecked:
		return v.handleDuplicates(msg)

	case messages.DraftGenerated:
		v.busy = false
		v.err = msg.Err
		if msg.Err == nil {
			v.confirmed = nil
			v.duplicates = nil
		}
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

	return v.updateFocused(msg)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.NextField):
		return v, v.cycleFocus(keyStr == "shift+tab")
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()
	}

	return v.updateFocused(msg)
}

func (v *View) updateFocused(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	if v.focus == fieldImage {
		v.image, cmd = v.image.Update(msg)
	} else {
		v.keywords, cmd = v.keywords.Update(msg)
	}
	return v, cmd
}

func (v *View) cycleFocus(reverse bool) tea.Cmd {
	step := 1
	if reverse {
		step = fieldCount - 1
	}
	v.focus = (v.focus + step) % fieldCount
	if v.focus == fieldImage {
		v.keywords.Blur()
		return v.image.Focus()
	}
	v.image.Blur()
	return v.keywords.Focus()
}

func (v *View) submit() tea.Cmd {
	keywords := domain.ParseKeywords(v.keywords.Value())
	if len(keywords) == 0 {
		v.err = domain.ErrNoKeywords
		return nil
	}
	v.err = nil
	v.busy = true

	if v.confirmed != nil && slices.Equal(v.confirmed, keywords) {
		return tea.Batch(v.draft(keywords), v.spinner.Tick)
	}
	return tea.Batch(v.checkDuplicates(keywords), v.spinner.Tick)
}

func (v *View) handleDuplicates(msg messages.DuplicatesChecked) (*View, tea.Cmd) {
	if len(msg.Duplicates) > 0 {
		v.busy = false
		v.confirmed = msg.Keywords
		v.duplicates = msg.Duplicates
		return v, nil
	}
	v.confirmed = nil
	v.duplicates = nil
	return v, v.draft(msg.Keywords)
}

func (v *View) checkDuplicates(keywords []string) tea.Cmd {
	ctx := v.ctx
	workflow := v.workflow
	return func() tea.Msg {
		dups, _ := workflow.CheckKeywords(ctx, keywords)
		return messages.DuplicatesChecked{Keywords: keywords, Duplicates: dups}
	}
}

func (v *View) draft(keywords []string) tea.Cmd {
	ctx := v.ctx
	workflow := v.workflow
	readFile := v.readFile
	imagePath := strings.TrimSpace(v.image.Value())
	return func() tea.Msg {
		var (
			image     []byte
			imageName string
		)
		if imagePath != "" {
			data, err := readFile(imagePath)
			if err != nil {
				return messages.DraftGenerated{Err: fmt.Errorf("%w: reading image: %w", domain.ErrInvalidInput, err)}
			}
			image = data
			imageName = filepath.Base(imagePath)
		}
		draft, warnings, err := workflow.Draft(ctx, keywords, image, imageName)
		return messages.DraftGenerated{Draft: draft, Warnings: warnings, Err: err}
	}
}

// View renders the compose view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New post"))
	b.WriteString("\n\n")
	b.WriteString(v.keywords.View())
	b.WriteString("\n")
	b.WriteString(v.image.View())
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Recently posted"))
	b.WriteString("\n")
	if len(v.recent) == 0 {
		b.WriteString(v.styles.Muted.Render("  nothing yet"))
	} else {
		chips := make([]string, 0, len(v.recent))
		for _, kw := range v.recent {
			chips = append(chips, v.styles.Keyword.Render(kw))
		}
		b.WriteString(lipgloss.NewStyle().Width(v.width - 4).Render(strings.Join(chips, " ")))
	}
	b.WriteString("\n")

	if len(v.duplicates) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(
			"Already posted about: " + strings.Join(v.duplicates, ", ") + ". Press enter again to draft anyway."))
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString("\n" + v.spinner.View() + " Generating draft...\n")
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
	v.keywords.SetWidth(width - 8)
	v.image.SetWidth(width - 8)
}

// SetRecent replaces the recently posted keywords.
func (v *View) SetRecent(keywords []string) {
	v.recent = keywords
}

// SetError shows err, for example after a failed regeneration.
func (v *View) SetError(err error) {
	v.err = err
}

// Reset clears the inputs for a new post. Recent keywords are kept.
func (v *View) Reset() {
	v.keywords.Reset()
	v.image.Reset()
	v.confirmed = nil
	v.duplicates = nil
	v.err = nil
	v.busy = false
}

// Busy reports whether a workflow call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Recent returns the displayed recent keywords.
func (v *View) Recent() []string {
	return v.recent
}

// Duplicates returns the keywords in the current duplicate warning.
func (v *View) Duplicates() []string {
	return v.duplicates
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
