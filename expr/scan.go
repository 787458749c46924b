package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokTrue
	tokFalse
	tokIn
	tokNot    // !
	tokAnd    // &&
	tokOr     // ||
	tokEq     // ==
	tokNeq    // !=
	tokGt     // >
	tokGte    // >=
	tokLt     // <
	tokLte    // <=
	tokLParen // (
	tokRParen // )
)

func (k tokenKind) describe() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokRParen:
		return "')'"
	default:
		return "operator"
	}
}

type token struct {
	kind   tokenKind
	text   string // identifier name, literal text, or decoded string value
	offset int    // byte offset of the first character in the input
}

// scanner produces one token at a time. It keeps no lookahead of its own;
// the parser buffers the single token it needs.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (token, error) {
	s.skipSpace()
	start := s.pos
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, offset: start}, nil
	}

	c := s.src[s.pos]
	switch c {
	case '(':
		s.pos++
		return token{kind: tokLParen, text: "(", offset: start}, nil
	case ')':
		s.pos++
		return token{kind: tokRParen, text: ")", offset: start}, nil
	case '\'', '"':
		return s.scanString(c)
	case '&':
		if s.peekAt(1) == '&' {
			s.pos += 2
			return token{kind: tokAnd, text: "&&", offset: start}, nil
		}
	case '|':
		if s.peekAt(1) == '|' {
			s.pos += 2
			return token{kind: tokOr, text: "||", offset: start}, nil
		}
	case '=':
		if s.peekAt(1) == '=' {
			s.pos += 2
			return token{kind: tokEq, text: "==", offset: start}, nil
		}
	case '!':
		if s.peekAt(1) == '=' {
			s.pos += 2
			return token{kind: tokNeq, text: "!=", offset: start}, nil
		}
		s.pos++
		return token{kind: tokNot, text: "!", offset: start}, nil
	case '>':
		if s.peekAt(1) == '=' {
			s.pos += 2
			return token{kind: tokGte, text: ">=", offset: start}, nil
		}
		s.pos++
		return token{kind: tokGt, text: ">", offset: start}, nil
	case '<':
		if s.peekAt(1) == '=' {
			s.pos += 2
			return token{kind: tokLte, text: "<=", offset: start}, nil
		}
		s.pos++
		return token{kind: tokLt, text: "<", offset: start}, nil
	}

	if c >= '0' && c <= '9' {
		return s.scanNumber()
	}
	if isIdentStart(rune(c)) {
		return s.scanIdent()
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return token{}, &SyntaxError{
		Offset: start,
		Kind:   ErrUnexpectedToken,
		Msg:    "unexpected character " + quoteRune(r),
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) scanString(delim byte) (token, error) {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == delim {
			s.pos++
			return token{kind: tokString, text: b.String(), offset: start}, nil
		}
		b.WriteByte(c)
		s.pos++
	}
	return token{}, &SyntaxError{
		Offset: start,
		Kind:   ErrUnterminatedString,
		Msg:    "unterminated string literal",
	}
}

func (s *scanner) scanNumber() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.pos++
		}
	}
	return token{kind: tokNumber, text: s.src[start:s.pos], offset: start}, nil
}

func (s *scanner) scanIdent() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(rune(s.src[s.pos])) {
		s.pos++
	}
	text := s.src[start:s.pos]
	kind := tokIdent
	switch text {
	case "true":
		kind = tokTrue
	case "false":
		kind = tokFalse
	case "in":
		kind = tokIn
	}
	return token{kind: kind, text: text, offset: start}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Identifiers allow dots so hierarchical context keys like "panel.focused"
// read as a single key.
func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '.' || (r >= '0' && r <= '9')
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
