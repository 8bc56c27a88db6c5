package tui

import (
	"meeting-board/internal/editor"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit    key.Binding
	Record  key.Binding
	Speak   key.Binding
	Export  key.Binding
	Copy    key.Binding
	Preview key.Binding
	Clear   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+c", "quit")),
		Record:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record")),
		Speak:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "read aloud")),
		Export:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy md")),
		Preview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Record, k.Speak, k.Export, k.Copy, k.Preview, k.Clear, k.Quit}
}

// editorKey maps a terminal key to a controller-owned key.
func editorKey(msg tea.KeyMsg) editor.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return editor.KeyEnter
	case tea.KeyBackspace:
		return editor.KeyBackspace
	case tea.KeyTab:
		return editor.KeyTab
	case tea.KeyShiftTab:
		return editor.KeyShiftTab
	case tea.KeyUp:
		return editor.KeyUp
	case tea.KeyDown:
		return editor.KeyDown
	}
	return editor.KeyNone
}
