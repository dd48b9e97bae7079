package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Search    key.Binding
	Done      key.Binding
	Next      key.Binding
	All       key.Binding
	Pending   key.Binding
	Confirmed key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle status")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Done:      key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "leave search")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Pending:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		Confirmed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "confirmed")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.Next, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Search, k.Done},
		{k.Next, k.All, k.Pending, k.Confirmed},
		{k.Reload, k.Quit},
	}
}
