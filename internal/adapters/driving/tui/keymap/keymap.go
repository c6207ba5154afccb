// Package keymap centralises the wizard's keybindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap names every binding the views share.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Back      key.Binding // previous view or wizard step
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding // confirm a selection or submit an answer
	Cancel    key.Binding
	NewSearch key.Binding // restart from the results view
	Replan    key.Binding // reopen the wizard with the previous answers
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:      bind("q", "quit", "q", "ctrl+c"),
		Help:      bind("?", "help", "?"),
		Back:      bind("esc", "back", "esc"),
		Up:        bind("↑/k", "up", "up", "k"),
		Down:      bind("↓/j", "down", "down", "j"),
		Select:    bind("enter", "select", "enter"),
		Cancel:    bind("esc", "cancel", "esc"),
		NewSearch: bind("n", "new search", "n"),
		Replan:    bind("e", "edit & replan", "e"),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ResultsHelp lists the bindings shown under search results.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewSearch, k.Up, k.Down, k.Back}
}

// FullHelp groups every binding for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Cancel, k.NewSearch, k.Replan},
		{k.Help, k.Quit},
	}
}

// Matches reports whether a key string is one of the binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	for _, bound := range binding.Keys() {
		if bound == keyStr {
			return true
		}
	}
	return false
}
