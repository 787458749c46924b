package expr

import "strings"

// View provides read access to context values during evaluation. A missing
// key must be reported as nil, not an error. appctx.View satisfies this
// interface.
type View interface {
	Value(key string) any
}

// MapView adapts a plain map for evaluation, mostly in tests and throwaway
// CLI contexts.
type MapView map[string]any

func (m MapView) Value(key string) any { return m[key] }

// Evaluate computes the value of an expression tree against a context view.
// Evaluation is total: it never fails, has no side effects, and is safe for
// concurrent readers as long as the view is stable for the duration of the
// call. Type mismatches resolve to false by policy, mirroring the permissive
// semantics of contribution-point "when" clauses.
func Evaluate(e Expr, view View) any {
	switch n := e.(type) {
	case Constant:
		return n.Value
	case ContextRef:
		if view == nil {
			return nil
		}
		return view.Value(n.Key)
	case Not:
		return !Truthy(Evaluate(n.Operand, view))
	case And:
		return Truthy(Evaluate(n.Left, view)) && Truthy(Evaluate(n.Right, view))
	case Or:
		return Truthy(Evaluate(n.Left, view)) || Truthy(Evaluate(n.Right, view))
	case Compare:
		return compare(n.Op, Evaluate(n.Left, view), Evaluate(n.Right, view))
	case In:
		return contains(Evaluate(n.Needle, view), Evaluate(n.Haystack, view))
	}
	return nil
}

// EvaluateBool evaluates an expression and coerces the result to a boolean.
// A nil expression is treated as always true, which is the convention for
// absent "when" clauses.
func EvaluateBool(e Expr, view View) bool {
	if e == nil {
		return true
	}
	return Truthy(Evaluate(e, view))
}

// Truthy implements the boolean coercion rule: nil, false, 0 and "" are
// falsy, everything else truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	default:
		if f, ok := asNumber(v); ok {
			return f != 0
		}
		return true
	}
}

// asNumber widens the numeric types a host might reasonably put in a
// context store to float64.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func compare(op CompareOp, left, right any) bool {
	switch op {
	case OpEq:
		return looseEqual(left, right)
	case OpNeq:
		// Heterogeneous operands are unequal-but-incomparable: both == and
		// != report false for them.
		if !sameKind(left, right) {
			return false
		}
		return !looseEqual(left, right)
	}

	if lf, ok := asNumber(left); ok {
		rf, rok := asNumber(right)
		if !rok {
			return false
		}
		return ordered(op, compareFloats(lf, rf))
	}
	ls, ok := left.(string)
	if !ok {
		return false
	}
	rs, ok := right.(string)
	if !ok {
		return false
	}
	return ordered(op, strings.Compare(ls, rs))
}

func ordered(op CompareOp, cmp int) bool {
	switch op {
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	}
	return false
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// looseEqual compares two context values. Numbers compare across widths;
// otherwise the dynamic kinds must match.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := asNumber(a); ok {
		bf, bok := asNumber(b)
		return bok && af == bf
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	}
	return false
}

func sameKind(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, ok := asNumber(a); ok {
		_, bok := asNumber(b)
		return bok
	}
	switch a.(type) {
	case bool:
		_, ok := b.(bool)
		return ok
	case string:
		_, ok := b.(string)
		return ok
	}
	return false
}

// contains implements the "in" operator. The haystack may be a slice (loose
// equality against each element), a string-keyed map (key membership) or a
// string (substring test). Anything else is false.
func contains(needle, haystack any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, v := range h {
			if looseEqual(needle, v) {
				return true
			}
		}
	case []string:
		s, ok := needle.(string)
		if !ok {
			return false
		}
		for _, v := range h {
			if v == s {
				return true
			}
		}
	case map[string]any:
		s, ok := needle.(string)
		if !ok {
			return false
		}
		_, found := h[s]
		return found
	case string:
		s, ok := needle.(string)
		return ok && strings.Contains(h, s)
	}
	return false
}
