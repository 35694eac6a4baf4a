package auth

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/postcraft/internal/core/domain"
)

const testURL = "https://www.linkedin.com/oauth/v2/authorization?state=abc"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyView(t *testing.T, wf *tuitest.Workflow, open func(string) error) *View {
	t.Helper()
	v := NewView(nil, nil, wf, open)
	v.Init()
	require.True(t, v.Busy())

	msg := v.requestURL()()
	v.Update(msg)
	require.False(t, v.Busy())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &tuitest.Workflow{}, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.False(t, v.Busy())
	assert.Empty(t, v.URL())
}

func TestView_RequestURL(t *testing.T) {
	wf := &tuitest.Workflow{URL: testURL}
	v := readyView(t, wf, nil)

	assert.Equal(t, testURL, v.URL())
	assert.NoError(t, v.Err())
	assert.Equal(t, domain.WorkflowAwaitingAuth, wf.State())
	assert.Contains(t, v.View(), "linkedin.com")
}

func TestView_RequestURLError(t *testing.T) {
	wf := &tuitest.Workflow{URLErr: domain.ErrConfiguration}
	v := readyView(t, wf, nil)

	assert.ErrorIs(t, v.Err(), domain.ErrConfiguration)
	assert.Contains(t, v.View(), "new authorization URL")
}

func TestView_OpenBrowser(t *testing.T) {
	var opened string
	v := readyView(t, &tuitest.Workflow{URL: testURL}, func(u string) error {
		opened = u
		return nil
	})

	v.Update(runes("o"))

	assert.Equal(t, testURL, opened)
	assert.Contains(t, v.Notice(), "Browser opened")
}

func TestView_OpenBrowserFailure(t *testing.T) {
	v := readyView(t, &tuitest.Workflow{URL: testURL}, func(string) error {
		return errors.New("no display")
	})

	v.Update(runes("o"))

	assert.Contains(t, v.Notice(), "copy the URL")
}

func TestView_OpenBrowserUnavailable(t *testing.T) {
	v := readyView(t, &tuitest.Workflow{URL: testURL}, nil)

	v.Update(runes("o"))

	assert.Contains(t, v.Notice(), "Copy the URL")
}

func TestView_SubmitCode(t *testing.T) {
	wf := &tuitest.Workflow{URL: testURL}
	v := readyView(t, wf, nil)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, v.code.Focused())
	v.Update(runes("code-123"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, v.Busy())

	msg := v.exchange("code-123")()
	completed, ok := msg.(messages.AuthCompleted)
	require.True(t, ok)
	assert.NoError(t, completed.Err)
	assert.Equal(t, "code-123", wf.LastCode)
	assert.Equal(t, domain.WorkflowDrafting, wf.State())

	v.Update(completed)
	assert.False(t, v.Busy())
}

func TestView_SubmitEmptyCode(t *testing.T) {
	v := readyView(t, &tuitest.Workflow{URL: testURL}, nil)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Busy())
}

func TestView_AuthFailure(t *testing.T) {
	v := readyView(t, &tuitest.Workflow{URL: testURL}, nil)
	v.code.SetValue("bad")

	v.Update(messages.AuthCompleted{Err: domain.ErrAuthExchange})

	assert.ErrorIs(t, v.Err(), domain.ErrAuthExchange)
	assert.Empty(t, v.code.Value())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_KeysIgnoredWhileBusy(t *testing.T) {
	var opened bool
	v := NewView(nil, nil, &tuitest.Workflow{URL: testURL}, func(string) error {
		opened = true
		return nil
	})
	v.Init()

	v.Update(runes("o"))

	assert.False(t, opened)
	assert.Contains(t, v.View(), "Preparing authorization request")
}

func TestView_EscBlursCode(t *testing.T) {
	v := readyView(t, &tuitest.Workflow{URL: testURL}, nil)
	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.code.Focused())
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil, nil, &tuitest.Workflow{}, nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, v.width)
	assert.Equal(t, 40, v.height)
	assert.Equal(t, 112, v.code.Width())
}
