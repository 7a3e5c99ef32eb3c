package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/roach88/valet/internal/clipboard"
	"github.com/roach88/valet/internal/editor"
)

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding

	// list screen
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Filter key.Binding

	// detail screen
	Back   key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Save   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Copy   []key.Binding
}

func defaultKeyMap() keyMap {
	km := keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	}
	digits := []string{"1", "2", "3"}
	for i, f := range clipboard.Copyable {
		km.Copy = append(km.Copy, key.NewBinding(
			key.WithKeys(digits[i]),
			key.WithHelp(digits[i], "copy "+copyLabel(f)),
		))
	}
	return km
}

func copyLabel(f editor.Field) string {
	switch f {
	case editor.FieldRegisteredToName:
		return "name"
	case editor.FieldRegisteredToEmail:
		return "email"
	case editor.FieldLicenseKey:
		return "key"
	default:
		return string(f)
	}
}
