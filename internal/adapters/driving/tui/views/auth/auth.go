// Package auth provides the LinkedIn authorization view for the TUI.
package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// View shows the authorization URL and collects the code the provider
// redirected with.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	workflow driving.PublishWorkflow
	openURL  func(string) error
	ctx      context.Context

	code    *input.Field
	spinner spinner.Model

	url    string
	notice string
	err    error
	busy   bool

	width  int
	height int
}

// NewView creates the auth view. openURL may be nil when no browser can be
// launched.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	workflow driving.PublishWorkflow,
	openURL func(string) error,
) *View {
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
		openURL:  openURL,
		ctx:      context.Background(),
		code:     input.NewField(s, "Code", "paste the code parameter from the redirect URL"),
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for the code exchange.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init requests a fresh authorization URL.
func (v *View) Init() tea.Cmd {
	v.busy = true
	v.url = ""
	return tea.Batch(v.requestURL(), v.spinner.Tick)
}

// Update handles messages for the auth view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AuthURLReady:
		v.busy = false
		v.url = msg.URL
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil

	case messages.AuthCompleted:
		v.busy = false
		v.err = msg.Err
		if msg.Err != nil {
			v.code.Reset()
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

	var cmd tea.Cmd
	v.code, cmd = v.code.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	keyStr := msg.String()
	if v.code.Focused() {
		switch {
		case keymap.Matches(keyStr, v.keymap.Back), keymap.Matches(keyStr, v.keymap.NextField):
			v.code.Blur()
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Submit):
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.code, cmd = v.code.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.OpenBrowser):
		v.launchBrowser()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.NextField), keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.code.Focus()
	case keyStr == "r":
		return v, v.Init()
	}
	return v, nil
}

func (v *View) launchBrowser() {
	if v.url == "" {
		return
	}
	if v.openURL == nil {
		v.notice = "Copy the URL above into your browser."
		return
	}
	if err := v.openURL(v.url); err != nil {
		v.notice = "Could not open a browser, copy the URL above instead."
		return
	}
	v.notice = "Browser opened. Approve access, then paste the code here."
}

func (v *View) submit() tea.Cmd {
	code := strings.TrimSpace(v.code.Value())
	if code == "" || v.url == "" {
		return nil
	}
	v.busy = true
	v.err = nil
	v.code.Blur()
	return tea.Batch(v.exchange(code), v.spinner.Tick)
}

func (v *View) requestURL() tea.Cmd {
	workflow := v.workflow
	return func() tea.Msg {
		url, err := workflow.AuthorizationURL()
		return messages.AuthURLReady{URL: url, Err: err}
	}
}

func (v *View) exchange(code string) tea.Cmd {
	ctx := v.ctx
	workflow := v.workflow
	return func() tea.Msg {
		return messages.AuthCompleted{Err: workflow.Authenticate(ctx, code)}
	}
}

// View renders the auth view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Connect LinkedIn"))
	b.WriteString("\n\n")

	switch {
	case v.busy && v.url == "":
		b.WriteString(v.spinner.View() + " Preparing authorization request...\n")
	case v.url != "":
		b.WriteString(v.styles.Normal.Render("1. Open this URL and approve access:"))
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Width(v.width - 4).Render(v.url))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Normal.Render("2. Paste the code from the redirect URL:"))
		b.WriteString("\n")
		b.WriteString(v.code.View())
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n" + v.styles.Muted.Render(v.notice) + "\n")
	}
	if v.busy && v.url != "" {
		b.WriteString("\n" + v.spinner.View() + " Exchanging code...\n")
	}
	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
		b.WriteString(v.styles.Help.Render("[r] new authorization URL") + "\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.code.SetWidth(width - 8)
}

// SetError shows err, typically after the session was lost.
func (v *View) SetError(err error) {
	v.err = err
}

// Busy reports whether a workflow call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// URL returns the current authorization URL.
func (v *View) URL() string {
	return v.url
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last browser notice.
func (v *View) Notice() string {
	return v.notice
}
