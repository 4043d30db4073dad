package keys

import "github.com/charmbracelet/bubbles/key"

// AlarmKeyMap defines the keybindings available while an alarm is
// firing. There is deliberately no back or quit binding: a firing alarm
// is resolved only by an explicit stop or snooze.
type AlarmKeyMap struct {
	Stop   key.Binding
	Snooze key.Binding
}

// DefaultAlarmKeyMap returns the default alarm keybindings.
func DefaultAlarmKeyMap() *AlarmKeyMap {
	return &AlarmKeyMap{
		Stop: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "stop"),
		),
		Snooze: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "snooze"),
		),
	}
}

// ShortHelp returns the alarm keybindings for the compact help view.
func (k *AlarmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Snooze}
}

// FullHelp returns all alarm keybindings for the expanded help view.
func (k *AlarmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Stop, k.Snooze},
	}
}
