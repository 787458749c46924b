package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appmodel/expr"
	"appmodel/keys"
)

func TestResolveLastRegisteredWinsAtEqualWeight(t *testing.T) {
	r := NewKeybindings()
	chord := keys.MustSequence("ctrl+k")

	r.Register(Keybinding{Chord: chord, Command: "first"})
	r.Register(Keybinding{Chord: chord, Command: "second"})

	id, ok := r.Resolve(chord, expr.MapView{})
	require.True(t, ok)
	assert.Equal(t, CommandID("second"), id)
}

func TestResolveWeightBeatsRegistrationOrder(t *testing.T) {
	r := NewKeybindings()
	chord := keys.MustSequence("ctrl+k")

	r.Register(Keybinding{Chord: chord, Command: "user.override", Weight: WeightUser})
	r.Register(Keybinding{Chord: chord, Command: "default.late", Weight: WeightDefault})

	id, ok := r.Resolve(chord, expr.MapView{})
	require.True(t, ok)
	assert.Equal(t, CommandID("user.override"), id)
}

func TestResolveFallsBackWhenWinnerRemoved(t *testing.T) {
	r := NewKeybindings()
	chord := keys.MustSequence("ctrl+k")

	r.Register(Keybinding{Chord: chord, Command: "fallback"})
	dispose := r.Register(Keybinding{Chord: chord, Command: "winner", Weight: WeightUser})

	id, ok := r.Resolve(chord, expr.MapView{})
	require.True(t, ok)
	require.Equal(t, CommandID("winner"), id)

	dispose()
	id, ok = r.Resolve(chord, expr.MapView{})
	require.True(t, ok)
	assert.Equal(t, CommandID("fallback"), id)

	// Dispose is idempotent.
	assert.NotPanics(t, dispose)
}

func TestResolveFiltersByWhenClause(t *testing.T) {
	r := NewKeybindings()
	chord := keys.MustSequence("ctrl+k")

	r.Register(Keybinding{Chord: chord, Command: "edit.cut", When: expr.MustParse("editor.focused")})
	r.Register(Keybinding{Chord: chord, Command: "panel.close", When: expr.MustParse("panel.focused")})

	id, ok := r.Resolve(chord, expr.MapView{"editor.focused": true})
	require.True(t, ok)
	assert.Equal(t, CommandID("edit.cut"), id)

	id, ok = r.Resolve(chord, expr.MapView{"panel.focused": true})
	require.True(t, ok)
	assert.Equal(t, CommandID("panel.close"), id)

	_, ok = r.Resolve(chord, expr.MapView{})
	assert.False(t, ok, "no candidate survives, host handles the key")
}

func TestResolveNormalizesChordSpelling(t *testing.T) {
	r := NewKeybindings()

	r.Register(Keybinding{Chord: keys.MustSequence("Ctrl+Shift+K"), Command: "edit.cutLine"})

	id, ok := r.Resolve(keys.MustSequence("shift+ctrl+k"), expr.MapView{})
	require.True(t, ok)
	assert.Equal(t, CommandID("edit.cutLine"), id)
}

func TestResolveUnknownChord(t *testing.T) {
	r := NewKeybindings()
	_, ok := r.Resolve(keys.MustSequence("f12"), expr.MapView{})
	assert.False(t, ok)
}

func TestCandidatesAndBindingsFor(t *testing.T) {
	r := NewKeybindings()
	ctrlK := keys.MustSequence("ctrl+k")
	f5 := keys.MustSequence("f5")

	r.Register(Keybinding{Chord: ctrlK, Command: "edit.cut"})
	r.Register(Keybinding{Chord: ctrlK, Command: "panel.close", Weight: WeightUser})
	r.Register(Keybinding{Chord: f5, Command: "panel.close"})

	cands := r.Candidates(ctrlK)
	require.Len(t, cands, 2)
	assert.Equal(t, CommandID("edit.cut"), cands[0].Command)
	assert.Equal(t, CommandID("panel.close"), cands[1].Command)

	bindings := r.BindingsFor("panel.close")
	require.Len(t, bindings, 2)
	assert.Equal(t, "ctrl+k", bindings[0].Chord.String())
	assert.Equal(t, "f5", bindings[1].Chord.String())
}

func TestKeybindingRuleForPlatform(t *testing.T) {
	rule := KeybindingRule{Primary: "ctrl+o", Mac: "cmd+o"}

	assert.Equal(t, "cmd+o", rule.ForPlatform(keys.PlatformMac))
	assert.Equal(t, "ctrl+o", rule.ForPlatform(keys.PlatformLinux))
	assert.Equal(t, "ctrl+o", rule.ForPlatform(keys.PlatformWindows))

	empty := KeybindingRule{Mac: "cmd+o"}
	assert.Equal(t, "", empty.ForPlatform(keys.PlatformLinux), "no chord for this platform")
}

func TestMultiStrokeSequences(t *testing.T) {
	r := NewKeybindings()
	seq := keys.MustSequence("ctrl+k ctrl+s")

	r.Register(Keybinding{Chord: seq, Command: "keybindings.open"})

	id, ok := r.Resolve(keys.MustSequence("ctrl+k ctrl+s"), expr.MapView{})
	require.True(t, ok)
	assert.Equal(t, CommandID("keybindings.open"), id)

	// A prefix of the sequence is not a match on its own.
	_, ok = r.Resolve(keys.MustSequence("ctrl+k"), expr.MapView{})
	assert.False(t, ok)
}
