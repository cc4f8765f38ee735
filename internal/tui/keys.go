package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

// KeyMap holds the dashboard key bindings
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Open        key.Binding
	Search      key.Binding
	Facility    key.Binding
	Severity    key.Binding
	ClearFilter key.Binding
	Pause       key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Faster      key.Binding
	Slower      key.Binding
	Export      key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:    key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "prev page")),
		NextPage:    key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Facility:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "facility")),
		Severity:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "severity")),
		ClearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		Pause:       key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		AutoRefresh: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto refresh")),
		Faster:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorter interval")),
		Slower:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer interval")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Clear:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear logs")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Facility, k.Severity, k.Pause, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.Open},
		{k.Search, k.Facility, k.Severity, k.ClearFilter},
		{k.Pause, k.Refresh, k.AutoRefresh, k.Faster, k.Slower},
		{k.Export, k.Clear, k.Help, k.Quit},
	}
}

// tableKeyMap limits the table to row movement so its default page keys
// do not shadow the dashboard bindings.
func tableKeyMap(k KeyMap) table.KeyMap {
	disabled := key.NewBinding(key.WithDisabled())
	return table.KeyMap{
		LineUp:       k.Up,
		LineDown:     k.Down,
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   disabled,
		HalfPageDown: disabled,
		GotoTop:      key.NewBinding(key.WithKeys("home", "g")),
		GotoBottom:   key.NewBinding(key.WithKeys("end", "G")),
	}
}
