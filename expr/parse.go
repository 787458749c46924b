package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies grammar violations reported by Parse.
type ErrorKind string

const (
	ErrUnexpectedToken    ErrorKind = "unexpected token"
	ErrUnterminatedString ErrorKind = "unterminated string"
	ErrUnbalancedParens   ErrorKind = "unbalanced parens"
)

// SyntaxError reports a malformed expression along with the byte offset of
// the offending character, for diagnostics.
type SyntaxError struct {
	Offset int
	Kind   ErrorKind
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// EmptyExpressionError reports input that is empty after whitespace
// trimming.
type EmptyExpressionError struct{}

func (e *EmptyExpressionError) Error() string { return "empty expression" }

// Parse turns expression text into an immutable tree. Parsing is
// deterministic: a given string either parses to exactly one tree or fails
// with a located *SyntaxError (or *EmptyExpressionError for blank input).
//
// Grammar, precedence low to high:
//
//	or      := and ("||" and)*
//	and     := unary ("&&" unary)*
//	unary   := "!" unary | compare
//	compare := atom (("==" | "!=" | ">" | ">=" | "<" | "<=" | "in") atom)?
//	atom    := identifier | number | string | "true" | "false" | "(" or ")"
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyExpressionError{}
	}
	p := &parser{scan: scanner{src: text}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokEOF:
		return e, nil
	case tokRParen:
		return nil, &SyntaxError{
			Offset: p.tok.offset,
			Kind:   ErrUnbalancedParens,
			Msg:    "unmatched ')'",
		}
	default:
		return nil, p.unexpected()
	}
}

// MustParse is a convenience for expression literals in host code and tests.
// It panics on invalid input.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("expr: MustParse(%q): %v", text, err))
	}
	return e
}

type parser struct {
	scan scanner
	tok  token
}

func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) unexpected() error {
	msg := fmt.Sprintf("unexpected %s", p.tok.kind.describe())
	if p.tok.kind != tokEOF && p.tok.kind != tokString {
		msg = fmt.Sprintf("unexpected %q", p.tok.text)
	}
	return &SyntaxError{Offset: p.tok.offset, Kind: ErrUnexpectedToken, Msg: msg}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}
	return p.parseCompare()
}

// Comparisons are non-associative: "a == b == c" is a syntax error rather
// than a silently surprising tree.
func (p *parser) parseCompare() (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	var op CompareOp
	switch p.tok.kind {
	case tokEq:
		op = OpEq
	case tokNeq:
		op = OpNeq
	case tokGt:
		op = OpGt
	case tokGte:
		op = OpGte
	case tokLt:
		op = OpLt
	case tokLte:
		op = OpLte
	case tokIn:
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return In{Needle: left, Haystack: right}, nil
	default:
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return Compare{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.tok
	switch tok.kind {
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ContextRef{Key: tok.text}, nil
	case tokTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Constant{Value: true}, nil
	case tokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Constant{Value: false}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &SyntaxError{
				Offset: tok.offset,
				Kind:   ErrUnexpectedToken,
				Msg:    fmt.Sprintf("malformed number %q", tok.text),
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Constant{Value: n}, nil
	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Constant{Value: tok.text}, nil
	case tokLParen:
		open := tok.offset
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, &SyntaxError{
				Offset: open,
				Kind:   ErrUnbalancedParens,
				Msg:    "missing ')'",
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.unexpected()
	}
}
