package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/views/auth"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/views/compose"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/views/preview"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/views/result"
	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	authView    *auth.View
	composeView *compose.View
	previewView *preview.View
	resultView  *result.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// state mirrors the workflow state. It is refreshed only while no
	// workflow call is in flight.
	state domain.WorkflowState

	// watchErr is reported once the program starts.
	watchErr error

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. The workflow is
// started so the first view matches the session state.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		statusbar:   status.NewBar(s, km),
		authView:    auth.NewView(s, km, ports.Workflow, ports.OpenURL),
		composeView: compose.NewView(s, km, ports.Workflow),
		previewView: preview.NewView(s, km, ports.Workflow),
		resultView:  result.NewView(s, km, ports.Workflow),
	}

	if ports.Workflow.Start() == domain.WorkflowAwaitingAuth {
		a.currentView = messages.ViewAuth
	} else {
		a.currentView = messages.ViewCompose
	}
	a.syncStatus()
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.authView.WithContext(ctx)
	a.composeView.WithContext(ctx)
	a.previewView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("postcraft"),
		a.initView(a.currentView),
		a.loadRecent(),
	}
	if a.watchErr != nil {
		err := a.watchErr
		cmds = append(cmds, func() tea.Msg {
			return messages.ErrorOccurred{Err: fmt.Errorf("watching keyword ledger: %w", err)}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.syncStatus()
	return a, cmd
}

//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keymap.Matches(keyStr, a.keymap.Quit) {
			return tea.Quit
		}
		if a.currentView == messages.ViewCompose && !a.busy() &&
			keymap.Matches(keyStr, a.keymap.Disconnect) {
			a.ports.Workflow.Disconnect()
			a.composeView.Reset()
			return a.switchTo(messages.ViewAuth)
		}
		return a.forward(msg)

	case messages.ViewChanged:
		return a.switchTo(msg.View)

	case messages.AuthURLReady:
		a.authView, cmd = a.authView.Update(msg)
		return cmd

	case messages.AuthCompleted:
		a.authView, cmd = a.authView.Update(msg)
		if msg.Err != nil {
			return cmd
		}
		a.composeView.Reset()
		return tea.Batch(cmd, a.switchTo(messages.ViewCompose))

	case messages.DuplicatesChecked:
		a.composeView, cmd = a.composeView.Update(msg)
		return cmd

	case messages.DraftGenerated:
		a.composeView, cmd = a.composeView.Update(msg)
		if msg.Err != nil {
			// failed generation always lands back in drafting
			a.previewView.SetDraft(nil, nil)
			a.currentView = messages.ViewCompose
			return cmd
		}
		a.previewView.SetDraft(msg.Draft, msg.Warnings)
		a.currentView = messages.ViewPreview
		return tea.Batch(cmd, a.previewView.Init())

	case messages.Published:
		a.previewView, cmd = a.previewView.Update(msg)
		if msg.Err != nil {
			if a.ports.Workflow.State() == domain.WorkflowIdle {
				a.authView.SetError(msg.Err)
				return tea.Batch(cmd, a.switchTo(messages.ViewAuth))
			}
			return cmd
		}
		a.resultView.SetResult(msg.Result)
		a.currentView = messages.ViewResult
		return tea.Batch(cmd, a.loadRecent())

	case messages.RecentKeywordsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusbar.SetError(msg.Err)
			return nil
		}
		a.composeView.SetRecent(msg.Keywords)
		return nil

	case messages.KeywordsChanged:
		a.composeView.SetRecent(tail(msg.Keywords, domain.DefaultRecentKeywords))
		return nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetError(msg.Err)
		return nil

	case messages.Quit:
		return tea.Quit
	}

	return a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewAuth:
		a.authView, cmd = a.authView.Update(msg)
	case messages.ViewCompose:
		a.composeView, cmd = a.composeView.Update(msg)
	case messages.ViewPreview:
		a.previewView, cmd = a.previewView.Update(msg)
	case messages.ViewResult:
		a.resultView, cmd = a.resultView.Update(msg)
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	if view == messages.ViewCompose {
		return tea.Batch(a.initView(view), a.loadRecent())
	}
	return a.initView(view)
}

func (a *App) initView(view messages.ViewType) tea.Cmd {
	switch view {
	case messages.ViewAuth:
		return a.authView.Init()
	case messages.ViewCompose:
		return a.composeView.Init()
	case messages.ViewPreview:
		return a.previewView.Init()
	case messages.ViewResult:
		return a.resultView.Init()
	}
	return nil
}

func (a *App) loadRecent() tea.Cmd {
	ctx := a.ctx
	keywords := a.ports.Keywords
	return func() tea.Msg {
		recent, err := keywords.Recent(ctx, domain.DefaultRecentKeywords)
		return messages.RecentKeywordsLoaded{Keywords: recent, Err: err}
	}
}

// busy reports whether any view has a workflow call in flight.
func (a *App) busy() bool {
	return a.authView.Busy() || a.composeView.Busy() || a.previewView.Busy()
}

func (a *App) syncStatus() {
	if !a.busy() {
		a.state = a.ports.Workflow.State()
	}
	a.statusbar.SetState(a.state)
	a.statusbar.SetView(a.currentView)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewAuth:
		body = a.authView.View()
	case messages.ViewCompose:
		body = a.composeView.View()
	case messages.ViewPreview:
		body = a.previewView.View()
	case messages.ViewResult:
		body = a.resultView.View()
	}

	bar := a.statusbar.View()
	gap := a.height - lipgloss.Height(body) - lipgloss.Height(bar)
	if gap < 0 {
		gap = 0
	}
	return body + lipgloss.NewStyle().Height(gap).Render("") + "\n" + bar
}

// Run starts the TUI application. When a watcher is configured, ledger
// changes from other processes refresh the recent keywords.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.ports.Watcher != nil {
		a.watchErr = a.ports.Watcher.Watch(ctx, func(keywords []string) {
			p.Send(messages.KeywordsChanged{Keywords: keywords})
		})
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// State returns the last observed workflow state.
func (a *App) State() domain.WorkflowState {
	return a.state
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusbar.SetWidth(width)
	a.authView.SetDimensions(width, height)
	a.composeView.SetDimensions(width, height)
	a.previewView.SetDimensions(width, height)
	a.resultView.SetDimensions(width, height)
}

func tail(keywords []string, n int) []string {
	if len(keywords) > n {
		return keywords[len(keywords)-n:]
	}
	return keywords
}
