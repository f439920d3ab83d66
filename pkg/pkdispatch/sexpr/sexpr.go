// Package sexpr provides the restricted canonical S-expression value tree
// the dispatcher marshallers walk, and a tiny parser/printer good enough
// for the canonical forms the dispatcher itself builds and consumes. It is
// not a general Lisp reader: no quoting, no display hints, no verbatim
// binary-length-prefixed atoms beyond what Parse/String round-trip here.
package sexpr

import (
	"fmt"
	"strings"
)

// Value is either an Atom or a List.
type Value interface {
	isValue()
	String() string
}

// Atom is a leaf token or byte string.
type Atom struct {
	Bytes []byte
}

func (Atom) isValue() {}

// String renders the atom as plain text. Callers needing the raw bytes of
// a parameter value should use Bytes directly; String is for tokens.
func (a Atom) String() string {
	return string(a.Bytes)
}

// List is an ordered sequence of child values, e.g. (public-key (rsa (n
// ...) (e ...))).
type List struct {
	Items []Value
}

func (List) isValue() {}

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Head returns the first item of a list if it is an Atom, and whether that
// succeeded. Used to read a sublist's leading token.
func (l List) Head() (string, bool) {
	if len(l.Items) == 0 {
		return "", false
	}
	a, ok := l.Items[0].(Atom)
	if !ok {
		return "", false
	}
	return a.String(), true
}

// Find returns the first direct child sublist of v whose head atom equals
// token, case-sensitively, matching spec token-name lookups. v itself is
// also checked if it is a List whose own head matches.
func Find(v Value, token string) (List, bool) {
	l, ok := v.(List)
	if !ok {
		return List{}, false
	}
	if head, ok := l.Head(); ok && head == token {
		return l, true
	}
	for _, item := range l.Items {
		if child, ok := item.(List); ok {
			if head, ok := child.Head(); ok && head == token {
				return child, true
			}
		}
	}
	return List{}, false
}

// FindRecursive searches v and every descendant sublist (depth-first) for
// the first sublist headed by token. Used when the target may be nested
// below an intermediate wrapper, e.g. digging into (private-key (rsa ...))
// from the outer key-data list.
func FindRecursive(v Value, token string) (List, bool) {
	l, ok := v.(List)
	if !ok {
		return List{}, false
	}
	if head, ok := l.Head(); ok && head == token {
		return l, true
	}
	for _, item := range l.Items {
		if child, ok := item.(List); ok {
			if found, ok := FindRecursive(child, token); ok {
				return found, true
			}
		}
	}
	return List{}, false
}

// Parse reads a canonical S-expression: atoms are runs of non-space,
// non-paren characters; everything else nests as parenthesized lists.
// Whitespace separates siblings. This covers every form spec.md §6 uses
// for key-data, sig-val, and enc-val; it is deliberately not a general
// reader (no quoting, no verbatim length-prefixed atoms).
func Parse(s string) (Value, error) {
	p := &parser{input: s}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("sexpr: trailing input at offset %d", p.pos)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (p *parser) parseValue() (Value, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("sexpr: unexpected end of input")
	}
	if p.input[p.pos] == '(' {
		return p.parseList()
	}
	return p.parseAtom()
}

func (p *parser) parseList() (Value, error) {
	p.pos++ // consume '('
	var items []Value
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("sexpr: unterminated list")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return List{Items: items}, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *parser) parseAtom() (Value, error) {
	start := p.pos
	for p.pos < len(p.input) && !isSpace(p.input[p.pos]) && p.input[p.pos] != '(' && p.input[p.pos] != ')' {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("sexpr: empty atom at offset %d", start)
	}
	return Atom{Bytes: []byte(p.input[start:p.pos])}, nil
}
