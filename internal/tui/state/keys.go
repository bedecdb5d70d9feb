package state

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Sort     key.Binding
	Dir      key.Binding
	Favorite key.Binding
	Drawer   key.Binding
	Match    key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		Next:     key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("n/→", "next page")),
		Prev:     key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("p/←", "prev page")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort field")),
		Dir:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort direction")),
		Favorite: key.NewBinding(key.WithKeys("f", " "), key.WithHelp("f", "favorite")),
		Drawer:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "favorites")),
		Match:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "match")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Favorite, k.Drawer, k.Match, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Sort, k.Dir, k.Reset},
		{k.Favorite, k.Drawer, k.Match},
		{k.Help, k.Quit},
	}
}
