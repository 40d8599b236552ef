package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the reader's keybindings. Scrolling keys belong to the
// viewport.
type KeyMap struct {
	// Quit exits the reader.
	Quit key.Binding

	// Newer opens the previous (newer) post.
	Newer key.Binding

	// Older opens the next (older) post.
	Older key.Binding

	// NextSection scrolls to the next table-of-contents heading.
	NextSection key.Binding

	// PrevSection scrolls to the previous table-of-contents heading.
	PrevSection key.Binding

	// Top scrolls to the start of the post.
	Top key.Binding

	// Bottom scrolls to the end of the post.
	Bottom key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Newer: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "newer post"),
		),
		Older: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "older post"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev section"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevSection, k.NextSection, k.Newer, k.Older, k.Top, k.Bottom, k.Quit}
}
