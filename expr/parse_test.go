package expr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Expr
	}{
		{
			name:  "bare identifier",
			input: "editor.focused",
			want:  ContextRef{Key: "editor.focused"},
		},
		{
			name:  "boolean literals",
			input: "true && false",
			want:  And{Left: Constant{Value: true}, Right: Constant{Value: false}},
		},
		{
			name:  "negation",
			input: "!readonly",
			want:  Not{Operand: ContextRef{Key: "readonly"}},
		},
		{
			name:  "double negation",
			input: "!!readonly",
			want:  Not{Operand: Not{Operand: ContextRef{Key: "readonly"}}},
		},
		{
			name:  "and binds tighter than or",
			input: "a || b && c",
			want: Or{
				Left:  ContextRef{Key: "a"},
				Right: And{Left: ContextRef{Key: "b"}, Right: ContextRef{Key: "c"}},
			},
		},
		{
			name:  "and is left associative",
			input: "a && b && c",
			want: And{
				Left:  And{Left: ContextRef{Key: "a"}, Right: ContextRef{Key: "b"}},
				Right: ContextRef{Key: "c"},
			},
		},
		{
			name:  "parens override precedence",
			input: "(a || b) && c",
			want: And{
				Left:  Or{Left: ContextRef{Key: "a"}, Right: ContextRef{Key: "b"}},
				Right: ContextRef{Key: "c"},
			},
		},
		{
			name:  "comparison with single quoted string",
			input: "lang == 'go'",
			want:  Compare{Op: OpEq, Left: ContextRef{Key: "lang"}, Right: Constant{Value: "go"}},
		},
		{
			name:  "comparison with double quoted string",
			input: `lang != "python"`,
			want:  Compare{Op: OpNeq, Left: ContextRef{Key: "lang"}, Right: Constant{Value: "python"}},
		},
		{
			name:  "numeric comparison",
			input: "count >= 2.5",
			want:  Compare{Op: OpGte, Left: ContextRef{Key: "count"}, Right: Constant{Value: 2.5}},
		},
		{
			name:  "membership",
			input: "mode in supportedModes",
			want:  In{Needle: ContextRef{Key: "mode"}, Haystack: ContextRef{Key: "supportedModes"}},
		},
		{
			name:  "negation applies to whole comparison",
			input: "!a == b",
			want:  Not{Operand: Compare{Op: OpEq, Left: ContextRef{Key: "a"}, Right: ContextRef{Key: "b"}}},
		},
		{
			name:  "kitchen sink",
			input: "panel.focused && (mode == 'edit' || count > 0) && !readonly",
			want: And{
				Left: And{
					Left: ContextRef{Key: "panel.focused"},
					Right: Or{
						Left:  Compare{Op: OpEq, Left: ContextRef{Key: "mode"}, Right: Constant{Value: "edit"}},
						Right: Compare{Op: OpGt, Left: ContextRef{Key: "count"}, Right: Constant{Value: float64(0)}},
					},
				},
				Right: Not{Operand: ContextRef{Key: "readonly"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) tree mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{
		"a && b || !c",
		"x == 'y' && n > 3",
		"mode in views && (a || b)",
	}
	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err)
		second, err := Parse(input)
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Parse(%q) not deterministic (-first +second):\n%s", input, diff)
		}
	}
}

func TestParseRoundTripsThroughString(t *testing.T) {
	inputs := []string{
		"a && b || !c",
		"(a || b) && c",
		"x == 'y'",
		"mode in views",
		"!(a && b)",
	}
	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err)
		second, err := Parse(first.String())
		require.NoError(t, err, "re-parsing %q", first.String())
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip of %q changed the tree (-first +second):\n%s", input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   ErrorKind
		offset int
	}{
		{name: "dangling operator", input: "a &&", kind: ErrUnexpectedToken, offset: 4},
		{name: "lone operator", input: "&&", kind: ErrUnexpectedToken, offset: 0},
		{name: "unknown character", input: "a # b", kind: ErrUnexpectedToken, offset: 2},
		{name: "unterminated single quote", input: "x == 'oops", kind: ErrUnterminatedString, offset: 5},
		{name: "unterminated double quote", input: `x == "oops`, kind: ErrUnterminatedString, offset: 5},
		{name: "missing close paren", input: "(a && b", kind: ErrUnbalancedParens, offset: 0},
		{name: "stray close paren", input: "a && b)", kind: ErrUnbalancedParens, offset: 6},
		{name: "chained comparison", input: "a == b == c", kind: ErrUnexpectedToken, offset: 7},
		{name: "single ampersand", input: "a & b", kind: ErrUnexpectedToken, offset: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "want *SyntaxError, got %T: %v", err, err)
			assert.Equal(t, tt.kind, syn.Kind)
			assert.Equal(t, tt.offset, syn.Offset)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := Parse(input)
		var empty *EmptyExpressionError
		require.True(t, errors.As(err, &empty), "Parse(%q) should fail with EmptyExpressionError, got %v", input, err)
	}
}
