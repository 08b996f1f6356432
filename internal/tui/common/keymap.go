package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the browser.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding

	// Catalog
	Filter      key.Binding // Enter search mode
	ClearFilter key.Binding
	NextStation key.Binding
	PrevStation key.Binding
	CycleSort   key.Binding
	Rescan      key.Binding
	CancelScan  key.Binding

	// Preview
	FetchPreview key.Binding
	BatchFetch   key.Binding

	Select key.Binding

	// Search mode
	AcceptSearch key.Binding
	ExitSearch   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "left", "h"), key.WithHelp("←/h", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "right", "l"), key.WithHelp("→/l", "page down")),
		GotoTop:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		GotoBottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		NextStation: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next station")),
		PrevStation: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev station")),
		CycleSort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Rescan:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		CancelScan:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel scan")),

		FetchPreview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "fetch art")),
		BatchFetch:   key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "fetch all art")),

		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),

		AcceptSearch: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		ExitSearch:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.NextStation, k.CycleSort, k.Select, k.Quit, k.Help}
}

// FullHelp lists every binding, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GotoTop, k.GotoBottom},
		{k.Filter, k.ClearFilter, k.NextStation, k.PrevStation, k.CycleSort},
		{k.Rescan, k.CancelScan, k.FetchPreview, k.BatchFetch, k.Select, k.Quit},
	}
}
