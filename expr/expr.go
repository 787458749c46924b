// Package expr implements the "when clause" mini-language used to gate
// commands, menu items and keybindings: a small boolean expression grammar
// over context keys, with permissive evaluation semantics (missing keys and
// type mismatches never fail, they just read as false).
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is an immutable expression tree. Trees are side-effect free and safe
// to share between goroutines once built.
type Expr interface {
	// String returns a parseable representation of the expression.
	String() string

	isExpr()
}

// Constant is a literal value: bool, float64, string or nil.
type Constant struct {
	Value any
}

// ContextRef reads a key from the evaluation context. Missing keys evaluate
// to nil.
type ContextRef struct {
	Key string
}

// Not negates the truthiness of its operand.
type Not struct {
	Operand Expr
}

// And is short-circuit boolean conjunction.
type And struct {
	Left, Right Expr
}

// Or is short-circuit boolean disjunction.
type Or struct {
	Left, Right Expr
}

// CompareOp enumerates the comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota // ==
	OpNeq                 // !=
	OpGt                  // >
	OpGte                 // >=
	OpLt                  // <
	OpLte                 // <=
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	}
	return fmt.Sprintf("CompareOp(%d)", int(op))
}

// Compare applies a comparison operator to two sub-expressions. Operands of
// different types compare unequal (and unordered) rather than erroring.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

// In is a membership test: the right operand must evaluate to a list, a map
// or a string, otherwise the test is false.
type In struct {
	Needle, Haystack Expr
}

func (Constant) isExpr()   {}
func (ContextRef) isExpr() {}
func (Not) isExpr()        {}
func (And) isExpr()        {}
func (Or) isExpr()         {}
func (Compare) isExpr()    {}
func (In) isExpr()         {}

func (e Constant) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e ContextRef) String() string { return e.Key }

func (e Not) String() string { return "!" + parenthesize(e.Operand, precUnary) }

func (e And) String() string {
	return parenthesize(e.Left, precAnd) + " && " + parenthesize(e.Right, precAnd)
}

func (e Or) String() string {
	return parenthesize(e.Left, precOr) + " || " + parenthesize(e.Right, precOr)
}

func (e Compare) String() string {
	return parenthesize(e.Left, precCompare) + " " + e.Op.String() + " " + parenthesize(e.Right, precCompare)
}

func (e In) String() string {
	return parenthesize(e.Needle, precCompare) + " in " + parenthesize(e.Haystack, precCompare)
}

// Operator precedence, low to high. Used both by the parser and by String to
// re-insert only the parentheses that matter.
const (
	precOr = iota + 1
	precAnd
	precUnary
	precCompare
	precAtom
)

func precedence(e Expr) int {
	switch e.(type) {
	case Or:
		return precOr
	case And:
		return precAnd
	case Not:
		return precUnary
	case Compare, In:
		return precCompare
	default:
		return precAtom
	}
}

func parenthesize(e Expr, min int) string {
	s := e.String()
	if precedence(e) < min {
		return "(" + s + ")"
	}
	return s
}

func quote(s string) string {
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}
