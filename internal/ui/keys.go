package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list view bindings. It implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	Sort     key.Binding
	Delete   key.Binding
	Edit     key.Binding
	Add      key.Binding
	Search   key.Binding
	More     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	First    key.Binding
	Last     key.Binding
	Mode     key.Binding
	Source   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Sort:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "sort")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	More:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
	PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
	First:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "first page")),
	Last:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "last page")),
	Mode:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pager mode")),
	Source:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "fake/live")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Delete, k.Edit, k.Add, k.Search, k.More, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Sort, k.Delete, k.Edit, k.Add},
		{k.Search, k.Refresh, k.Mode, k.Source},
		{k.More, k.PrevPage, k.NextPage, k.First, k.Last},
		{k.Help, k.Quit},
	}
}

// formKeys holds the form bindings.
var formKeys = struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}{
	Next:   key.NewBinding(key.WithKeys("tab", "down")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}
