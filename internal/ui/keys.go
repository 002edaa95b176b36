package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	QuitDemo   key.Binding
	NextScreen key.Binding
	PrevScreen key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Preview    key.Binding
	Close      key.Binding
	Mosaic     key.Binding
	Shuffle    key.Binding
	Help       key.Binding
	FullHelp   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitDemo:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		PrevScreen: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous screen")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous page")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Preview:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "preview")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close preview")),
		Mosaic:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "list/mosaic")),
		Shuffle:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle items")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		FullHelp:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "more keys")),
	}
}

// bindingSet is the help.KeyMap for one screen
type bindingSet struct {
	short []key.Binding
	full  [][]key.Binding
}

func (b bindingSet) ShortHelp() []key.Binding  { return b.short }
func (b bindingSet) FullHelp() [][]key.Binding { return b.full }

func (k keyMap) forScreen(s Screen) bindingSet {
	if s == ScreenSearch {
		return bindingSet{
			short: []key.Binding{k.Up, k.Down, k.Preview, k.Mosaic, k.NextScreen, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Up, k.Down, k.PageUp, k.PageDown},
				{k.Preview, k.Close, k.Mosaic},
				{k.NextScreen, k.PrevScreen, k.Help, k.FullHelp, k.Quit},
			},
		}
	}
	return bindingSet{
		short: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Shuffle, k.NextScreen, k.QuitDemo},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right},
			{k.Shuffle},
			{k.NextScreen, k.PrevScreen, k.Help, k.FullHelp, k.QuitDemo, k.Quit},
		},
	}
}
