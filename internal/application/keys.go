package application

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal browser.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding // Table: previous column
	Right    key.Binding // Table: next column
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Select key.Binding
	Back   key.Binding

	Sort   key.Binding // Toggle sort on the selected column
	Filter key.Binding // Filter the selected column
	Lookup key.Binding
	Ask    key.Binding
	Verify key.Binding // Ask the assistant to check the selected entry

	Quit key.Binding
}

// DefaultKeyMap uses vim-style navigation alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev column")),
	Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next column")),
	PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "page down")),
	Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),

	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),

	Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Lookup: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "UN lookup")),
	Ask:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ask")),
	Verify: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verify")),

	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
