package main

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	UpDown   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Family   key.Binding
	New      key.Binding
	Edit     key.Binding
	Reload   key.Binding
	Search   key.Binding
	Palette  key.Binding
	Close    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		UpDown:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "navigate")),
		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Family:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle family")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new product")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Palette:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "commands")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.UpDown, k.Reload, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.UpDown, k.Quit},
		{k.PrevPage, k.NextPage, k.Family, k.New, k.Edit, k.Reload},
	}
}

type panelKeyMap struct {
	keyMap
}

func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Close, k.Quit}
}

func (k panelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Edit, k.Close, k.Quit}}
}

// productsHelp is the footer for the Products tab, where the page-local
// bindings matter more than the global set.
func productsHelp(k keyMap) []key.Binding {
	return []key.Binding{k.Family, k.PrevPage, k.NextPage, k.New, k.Edit, k.Reload, k.Quit}
}
