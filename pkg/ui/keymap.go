package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	UnfocusMessage   key.Binding
	FocusMessage     key.Binding
	SubmitMessage    key.Binding
	ScrollUp         key.Binding
	ScrollDown       key.Binding
	CancelCompletion key.Binding

	Help key.Binding
	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	UnfocusMessage: key.NewBinding(
		key.WithKeys("esc", "ctrl+g"),
		key.WithHelp("esc", "scroll mode"),
	),
	FocusMessage: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "write"),
	),
	SubmitMessage: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "send"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("shift+pgup", "pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("shift+pgdown", "pgdown"),
		key.WithHelp("pgdown", "scroll down"),
	),
	CancelCompletion: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SubmitMessage, k.CancelCompletion, k.UnfocusMessage, k.FocusMessage, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SubmitMessage, k.CancelCompletion},
		{k.UnfocusMessage, k.FocusMessage},
		{k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
