// Package keys models keyboard shortcuts as normalized chords so that two
// spellings of the same shortcut ("Ctrl+Shift+K", "shift+ctrl+k") compare
// equal in the keybinding registry.
package keys

import (
	"fmt"
	"runtime"
	"strings"
)

// Chord is one keystroke: a set of modifiers plus a primary key token. The
// zero value is invalid; build chords with ParseChord.
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
	Key   string // normalized lowercase token, e.g. "k", "enter", "f5"
}

// Sequence is an ordered run of chords, e.g. "ctrl+k ctrl+s". Most
// shortcuts are a single chord.
type Sequence []Chord

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"opt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"meta":    "meta",
	"cmd":     "meta",
	"super":   "meta",
	"win":     "meta",
}

// Key tokens are normalized to bubbletea's names so chords built from text
// and chords built from key events agree.
var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	" ":        "space",
	"del":      "delete",
	"pageup":   "pgup",
	"pagedown": "pgdown",
	"pgdn":     "pgdown",
}

// ParseChord parses a single chord like "ctrl+shift+k". Tokens are
// case-insensitive and order-insensitive for modifiers; the last token is
// the primary key. A lone uppercase letter implies shift.
func ParseChord(text string) (Chord, error) {
	var c Chord
	tokens := strings.Split(text, "+")
	// A trailing "+" means the key itself is "+", e.g. "ctrl++".
	if len(tokens) >= 3 && tokens[len(tokens)-1] == "" && tokens[len(tokens)-2] == "" {
		tokens = append(tokens[:len(tokens)-2], "+")
	}
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return Chord{}, fmt.Errorf("malformed chord %q", text)
		}
		lower := strings.ToLower(tok)
		if i < len(tokens)-1 {
			mod, ok := modifierAliases[lower]
			if !ok {
				return Chord{}, fmt.Errorf("unknown modifier %q in chord %q", tok, text)
			}
			switch mod {
			case "ctrl":
				c.Ctrl = true
			case "alt":
				c.Alt = true
			case "shift":
				c.Shift = true
			case "meta":
				c.Meta = true
			}
			continue
		}
		// Primary key token. Multi-rune input (pasted text) is not a key.
		if strings.ContainsAny(tok, " \t") {
			return Chord{}, fmt.Errorf("malformed chord %q", text)
		}
		if len(tok) == 1 && tok[0] >= 'A' && tok[0] <= 'Z' {
			c.Shift = true
		}
		if alias, ok := keyAliases[lower]; ok {
			lower = alias
		}
		c.Key = lower
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("chord %q has no key", text)
	}
	return c, nil
}

// ParseSequence parses a whitespace-separated chord sequence like
// "ctrl+k ctrl+s".
func ParseSequence(text string) (Sequence, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty key sequence")
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		c, err := ParseChord(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}

// MustSequence parses a sequence and panics on error. For shortcut literals
// in host code and tests.
func MustSequence(text string) Sequence {
	seq, err := ParseSequence(text)
	if err != nil {
		panic(fmt.Sprintf("keys: MustSequence(%q): %v", text, err))
	}
	return seq
}

// String returns the canonical spelling: modifiers in ctrl, alt, shift,
// meta order, lowercase key. Canonical strings are what the keybinding
// registry indexes on.
func (c Chord) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("ctrl+")
	}
	if c.Alt {
		b.WriteString("alt+")
	}
	if c.Shift {
		b.WriteString("shift+")
	}
	if c.Meta {
		b.WriteString("meta+")
	}
	b.WriteString(c.Key)
	return b.String()
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two sequences denote the same shortcut.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Platform selects which variant of a platform-specific keybinding rule
// applies.
type Platform int

const (
	PlatformLinux Platform = iota
	PlatformMac
	PlatformWindows
)

// CurrentPlatform maps runtime.GOOS onto a keybinding platform. Anything
// that is not darwin or windows gets the linux bindings.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMac
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}
