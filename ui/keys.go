package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause  key.Binding
	Stop       key.Binding
	Back       key.Binding
	Forward    key.Binding
	Start      key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Search     key.Binding
	Copy       key.Binding
	Info       key.Binding
	Fullscreen key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	Wider      key.Binding
	Narrower   key.Binding
	DockBottom key.Binding
	DockRight  key.Binding
	Reset      key.Binding
	Help       key.Binding
	Close      key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PlayPause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Back:       key.NewBinding(key.WithKeys("left", "b"), key.WithHelp("←/b", "back 10 words")),
		Forward:    key.NewBinding(key.WithKeys("right", "w"), key.WithHelp("→/w", "skip 10 words")),
		Start:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "first word")),
		Faster:     key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/↑", "faster")),
		Slower:     key.NewBinding(key.WithKeys("-", "_", "down"), key.WithHelp("-/↓", "slower")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find word")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy word")),
		Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "full screen")),
		MoveUp:     key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		MoveLeft:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move left")),
		MoveRight:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move right")),
		Wider:      key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "wider")),
		Narrower:   key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "narrower")),
		DockBottom: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "dock bottom")),
		DockRight:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "dock right")),
		Reset:      key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset layout")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Back, k.Faster, k.Slower, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Back, k.Forward, k.Start},
		{k.Faster, k.Slower, k.Search, k.Copy, k.Info},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight, k.Fullscreen},
		{k.Wider, k.Narrower, k.DockBottom, k.DockRight, k.Reset, k.Quit},
	}
}
