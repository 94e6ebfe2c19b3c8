package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Input views only honor interrupt so that q can be typed.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	convert   key.Binding
	back      key.Binding
	restart   key.Binding
	quit      key.Binding
	interrupt key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		convert:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "convert")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.restart, k.quit},
	}
}
