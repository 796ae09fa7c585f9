package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab     key.Binding
	PrevTab     key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	Add         key.Binding
	Filter      key.Binding
	Clear       key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear search")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// tabKeys implements help.KeyMap for whichever tab is active.
type tabKeys struct {
	keys   keyMap
	active tab
	typing bool
}

func (k tabKeys) ShortHelp() []key.Binding {
	if k.typing {
		return []key.Binding{k.keys.Submit, k.keys.Cancel}
	}
	switch k.active {
	case tabMedia:
		watch := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "watchlist"))
		return []key.Binding{k.keys.Search, watch, k.keys.ClearSearch, k.keys.NextTab, k.keys.Quit}
	case tabWatchlist:
		watched := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "watched"))
		return []key.Binding{watched, k.keys.Delete, k.keys.NextTab, k.keys.Quit}
	default:
		return []key.Binding{k.keys.Add, k.keys.Toggle, k.keys.Delete, k.keys.Filter, k.keys.Clear, k.keys.NextTab, k.keys.Quit}
	}
}

func (k tabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.keys.Up, k.keys.Down, k.keys.PrevTab}}
}
