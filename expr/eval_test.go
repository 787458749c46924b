package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalText(t *testing.T, input string, ctx MapView) any {
	t.Helper()
	e, err := Parse(input)
	require.NoError(t, err)
	return Evaluate(e, ctx)
}

func TestEvaluateBasics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ctx   MapView
		want  any
	}{
		{name: "true literal", input: "true", ctx: MapView{}, want: true},
		{name: "and short", input: "a && b", ctx: MapView{"a": true, "b": false}, want: false},
		{name: "and both", input: "a && b", ctx: MapView{"a": true, "b": true}, want: true},
		{name: "or either", input: "a || b", ctx: MapView{"a": false, "b": true}, want: true},
		{name: "string equality", input: "x == 'y'", ctx: MapView{"x": "y"}, want: true},
		{name: "string inequality", input: "x != 'y'", ctx: MapView{"x": "z"}, want: true},
		{name: "missing key is falsy", input: "missing", ctx: MapView{}, want: nil},
		{name: "negated missing key", input: "!missing", ctx: MapView{}, want: true},
		{name: "numeric greater", input: "count > 2", ctx: MapView{"count": 5}, want: true},
		{name: "numeric greater missing key", input: "count > 2", ctx: MapView{}, want: false},
		{name: "numeric less or equal", input: "count <= 5", ctx: MapView{"count": 5.0}, want: true},
		{name: "string ordering", input: "name < 'm'", ctx: MapView{"name": "alpha"}, want: true},
		{name: "constant ref comparison", input: "3 < count", ctx: MapView{"count": 4}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalText(t, tt.input, tt.ctx)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateBoolCoercion(t *testing.T) {
	// §truthiness rule: nil, false, 0, "" falsy; everything else truthy.
	falsy := []any{nil, false, 0, 0.0, ""}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v should be falsy", v)
	}
	truthy := []any{true, 1, -1, 0.5, "x", "false", []any{}, map[string]any{}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v should be truthy", v)
	}
}

func TestEvaluateHeterogeneousComparisons(t *testing.T) {
	// Type mismatches are false by policy, never an error. Note that both
	// == and != report false for mismatched operand types.
	tests := []struct {
		name  string
		input string
		ctx   MapView
	}{
		{name: "string vs number equality", input: "x == 1", ctx: MapView{"x": "1"}},
		{name: "string vs number inequality", input: "x != 1", ctx: MapView{"x": "1"}},
		{name: "bool vs string", input: "x == 'true'", ctx: MapView{"x": true}},
		{name: "string ordered against number", input: "x > 0", ctx: MapView{"x": "5"}},
		{name: "number ordered against string", input: "x < 'a'", ctx: MapView{"x": 1}},
		{name: "nil ordered", input: "missing > 0", ctx: MapView{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, false, evalText(t, tt.input, tt.ctx))
		})
	}
}

func TestEvaluateNumericWidths(t *testing.T) {
	// Hosts put Go ints in the store; literals parse as float64. They must
	// still compare equal.
	ctx := MapView{"small": int32(3), "big": int64(3), "plain": 3}
	assert.Equal(t, true, evalText(t, "small == 3", ctx))
	assert.Equal(t, true, evalText(t, "big == plain", ctx))
	assert.Equal(t, true, evalText(t, "big >= small", ctx))
}

func TestEvaluateIn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ctx   MapView
		want  any
	}{
		{
			name:  "slice membership",
			input: "mode in modes",
			ctx:   MapView{"mode": "edit", "modes": []any{"view", "edit"}},
			want:  true,
		},
		{
			name:  "string slice membership",
			input: "mode in modes",
			ctx:   MapView{"mode": "edit", "modes": []string{"view", "edit"}},
			want:  true,
		},
		{
			name:  "slice non-membership",
			input: "mode in modes",
			ctx:   MapView{"mode": "debug", "modes": []any{"view", "edit"}},
			want:  false,
		},
		{
			name:  "numeric slice membership crosses widths",
			input: "n in nums",
			ctx:   MapView{"n": 2, "nums": []any{1.0, 2.0}},
			want:  true,
		},
		{
			name:  "map key membership",
			input: "k in table",
			ctx:   MapView{"k": "a", "table": map[string]any{"a": 1}},
			want:  true,
		},
		{
			name:  "substring",
			input: "part in whole",
			ctx:   MapView{"part": "ell", "whole": "hello"},
			want:  true,
		},
		{
			name:  "haystack not iterable is false",
			input: "x in n",
			ctx:   MapView{"x": "a", "n": 42},
			want:  false,
		},
		{
			name:  "missing haystack is false",
			input: "x in missing",
			ctx:   MapView{"x": "a"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalText(t, tt.input, tt.ctx))
		})
	}
}

func TestEvaluateNilWhenClause(t *testing.T) {
	// Absent when clauses are always true.
	assert.True(t, EvaluateBool(nil, MapView{}))
}

func TestEvaluateNilView(t *testing.T) {
	e := MustParse("a && b")
	assert.Equal(t, false, Evaluate(e, nil))
}

func TestEvaluateHasNoSideEffects(t *testing.T) {
	ctx := MapView{"a": true, "b": false}
	e := MustParse("a && !b")
	for i := 0; i < 3; i++ {
		assert.Equal(t, true, Evaluate(e, ctx))
	}
	assert.Equal(t, MapView{"a": true, "b": false}, ctx)
}
