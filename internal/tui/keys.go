package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	SetChapter key.Binding
	SetWork    key.Binding
	SetRes     key.Binding
	Report     key.Binding
	Reload     key.Binding
	Disconnect key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		SetChapter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "type: chapter")),
		SetWork:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "type: work")),
		SetRes:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "type: resource")),
		Report:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "report")),
		Reload:     key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "reload")),
		Disconnect: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "disconnect")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SetChapter, k.SetWork, k.SetRes, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand},
		{k.SetChapter, k.SetWork, k.SetRes},
		{k.Report, k.Reload, k.Disconnect},
		{k.Dismiss, k.Help, k.Quit},
	}
}
