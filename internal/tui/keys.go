package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/thenoetrevino/plura/internal/config"
)

// keyMap holds the board bindings built from the configured key mappings
type keyMap struct {
	Grab      key.Binding
	GrabLane  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Drop      key.Binding
	Cancel    key.Binding

	PrevLane   key.Binding
	NextLane   key.Binding
	PrevTicket key.Binding
	NextTicket key.Binding

	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func binding(k, desc string) key.Binding {
	label := k
	if k == " " {
		label = "space"
	}
	return key.NewBinding(key.WithKeys(k), key.WithHelp(label, desc))
}

func newKeyMap(km config.KeyMappings) keyMap {
	return keyMap{
		Grab:      binding(km.Grab, "grab ticket"),
		GrabLane:  binding(km.GrabLane, "grab lane"),
		MoveLeft:  binding(km.MoveLeft, "move left"),
		MoveRight: binding(km.MoveRight, "move right"),
		MoveUp:    binding(km.MoveUp, "move up"),
		MoveDown:  binding(km.MoveDown, "move down"),
		Drop:      binding(km.Drop, "drop"),
		Cancel:    binding(km.Cancel, "cancel drag"),

		PrevLane:   binding(km.PrevLane, "prev lane"),
		NextLane:   binding(km.NextLane, "next lane"),
		PrevTicket: binding(km.PrevTicket, "prev ticket"),
		NextTicket: binding(km.NextTicket, "next ticket"),

		Reload: binding(km.Reload, "reload"),
		Help:   binding(km.ShowHelp, "help"),
		Quit:   key.NewBinding(key.WithKeys(km.Quit, "ctrl+c"), key.WithHelp(km.Quit, "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.GrabLane, k.Drop, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevLane, k.NextLane, k.PrevTicket, k.NextTicket},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown},
		{k.Grab, k.GrabLane, k.Drop, k.Cancel},
		{k.Reload, k.Help, k.Quit},
	}
}
