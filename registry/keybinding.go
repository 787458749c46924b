package registry

import (
	"sort"
	"sync"

	"appmodel/expr"
	"appmodel/keys"
)

// Source-priority weights. User bindings override plugin bindings, which
// override application defaults. Any int works; these are the conventional
// tiers.
const (
	WeightDefault = 0
	WeightPlugin  = 100
	WeightUser    = 200
)

// Keybinding binds a key sequence to a command, gated by an optional when
// clause and ranked by weight.
type Keybinding struct {
	Chord   keys.Sequence
	Command CommandID
	When    expr.Expr
	Weight  int
}

// KeybindingRule is the declaration-side shape: a primary chord plus
// optional per-platform overrides, before the platform is pinned.
type KeybindingRule struct {
	Primary string
	Windows string
	Mac     string
	Linux   string
	When    expr.Expr
	Weight  int
}

// ForPlatform picks the chord text for a platform, falling back to Primary.
// The result may be empty, meaning the rule does not apply there.
func (r KeybindingRule) ForPlatform(p keys.Platform) string {
	switch p {
	case keys.PlatformWindows:
		if r.Windows != "" {
			return r.Windows
		}
	case keys.PlatformMac:
		if r.Mac != "" {
			return r.Mac
		}
	case keys.PlatformLinux:
		if r.Linux != "" {
			return r.Linux
		}
	}
	return r.Primary
}

type registeredBinding struct {
	Keybinding
	seq uint64
}

// Keybindings indexes bindings by canonical chord string and resolves the
// single active binding for a (chord, context) pair.
type Keybindings struct {
	mu      sync.RWMutex
	byChord map[string][]*registeredBinding
	nextSeq uint64
}

// NewKeybindings returns an empty keybinding registry.
func NewKeybindings() *Keybindings {
	return &Keybindings{byChord: make(map[string][]*registeredBinding)}
}

// Register adds a binding and returns a dispose func removing it. Each
// registration is stamped with a monotonically increasing sequence number,
// so equal-weight conflicts always have a deterministic winner even when
// bindings arrive in one batch.
func (r *Keybindings) Register(b Keybinding) func() {
	key := b.Chord.String()

	r.mu.Lock()
	r.nextSeq++
	reg := &registeredBinding{Keybinding: b, seq: r.nextSeq}
	r.byChord[key] = append(r.byChord[key], reg)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.byChord[key]
		for i, cand := range list {
			if cand == reg {
				r.byChord[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(r.byChord[key]) == 0 {
			delete(r.byChord, key)
		}
	}
}

// Resolve returns the command for the single active binding on chord under
// view, or ok=false when no binding applies and the host should fall back
// to normal key processing.
//
// Among bindings whose when clause is truthy, the highest weight wins;
// equal weights go to the most recent registration.
func (r *Keybindings) Resolve(chord keys.Sequence, view expr.View) (CommandID, bool) {
	r.mu.RLock()
	list := append([]*registeredBinding(nil), r.byChord[chord.String()]...)
	r.mu.RUnlock()

	var winner *registeredBinding
	for _, cand := range list {
		if !expr.EvaluateBool(cand.When, view) {
			continue
		}
		if winner == nil ||
			cand.Weight > winner.Weight ||
			(cand.Weight == winner.Weight && cand.seq > winner.seq) {
			winner = cand
		}
	}
	if winner == nil {
		return "", false
	}
	return winner.Command, true
}

// Candidates returns every binding registered on chord regardless of
// context, in registration order. Diagnostic surface for conflict
// inspection.
func (r *Keybindings) Candidates(chord keys.Sequence) []Keybinding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byChord[chord.String()]
	out := make([]Keybinding, len(list))
	for i, cand := range list {
		out[i] = cand.Keybinding
	}
	return out
}

// BindingsFor returns every binding targeting a command, sorted by chord
// text. Used by help views to show a command's shortcuts.
func (r *Keybindings) BindingsFor(id CommandID) []Keybinding {
	r.mu.RLock()
	var out []Keybinding
	for _, list := range r.byChord {
		for _, cand := range list {
			if cand.Command == id {
				out = append(out, cand.Keybinding)
			}
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Chord.String() < out[j].Chord.String()
	})
	return out
}
