package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FromKeyMsg converts a bubbletea key event into a chord, so TUI hosts can
// feed key messages straight into keybinding resolution. ok is false for
// events that do not map onto a chord (bare modifier presses, multi-rune
// paste input).
func FromKeyMsg(msg tea.KeyMsg) (Chord, bool) {
	s := msg.String()
	if alias, found := keyAliases[s]; found {
		s = alias
	}
	c, err := ParseChord(s)
	if err != nil {
		return Chord{}, false
	}
	return c, true
}

// HelpBinding converts a shortcut plus a short description into a bubbles
// help-view binding, for hosts that render keybinding hints with the
// bubbles help component.
func HelpBinding(seq Sequence, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(seq.String()),
		key.WithHelp(seq.String(), desc),
	)
}
