// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application from any view.
	Quit key.Binding

	// Back leaves the current view.
	Back key.Binding

	// Submit confirms the focused input.
	Submit key.Binding

	// NextField moves focus between inputs.
	NextField key.Binding

	// OpenBrowser opens the authorization URL.
	OpenBrowser key.Binding

	// Publish sends the draft to LinkedIn.
	Publish key.Binding

	// Regenerate asks the model for a new draft.
	Regenerate key.Binding

	// NewPost starts over after publishing.
	NewPost key.Binding

	// Disconnect drops the LinkedIn session.
	Disconnect key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		OpenBrowser: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open browser"),
		),
		Publish: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "publish"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "regenerate"),
		),
		NewPost: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "new post"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "disconnect"),
		),
	}
}

// AuthHelp returns keybindings shown while waiting for authorization.
func (k *KeyMap) AuthHelp() []key.Binding {
	return []key.Binding{k.OpenBrowser, k.NextField, k.Submit, k.Quit}
}

// ComposeHelp returns keybindings for the compose view.
func (k *KeyMap) ComposeHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Disconnect, k.Quit}
}

// PreviewHelp returns keybindings for the preview view.
func (k *KeyMap) PreviewHelp() []key.Binding {
	return []key.Binding{k.Publish, k.Regenerate, k.Back, k.Quit}
}

// ResultHelp returns keybindings for the result view.
func (k *KeyMap) ResultHelp() []key.Binding {
	return []key.Binding{k.NewPost, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
