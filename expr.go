package main

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/astei/bitstring/bitstring"
)

var ErrSyntax = errors.New("script: syntax error")
var ErrUndefined = errors.New("script: undefined variable")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits an expression into identifiers, numbers and operators.
// Numbers keep a leading '-' so that negative shift counts reach the
// library and are rejected there.
func tokenize(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			tokens = append(tokens, token{tokIdent, string(runes[i:j])})
			i = j
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			j := i + 1
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, token{tokNumber, string(runes[i:j])})
			i = j
		case r == '<' || r == '>':
			if i+1 >= len(runes) || runes[i+1] != r {
				return nil, fmt.Errorf("%w: expected %c%c", ErrSyntax, r, r)
			}
			tokens = append(tokens, token{tokOp, string(runes[i : i+2])})
			i += 2
		case r == '&' || r == '|' || r == '^' || r == '~' || r == '(' || r == ')':
			tokens = append(tokens, token{tokOp, string(r)})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrSyntax, r)
		}
	}
	return append(tokens, token{kind: tokEOF}), nil
}

// exprParser evaluates while it parses. Precedence, loosest first:
//
//	|   ^   &   << >>   ~
type exprParser struct {
	tokens []token
	pos    int
	width  int
	lookup func(name string) (*bitstring.FixedBitSet, bool)
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *exprParser) parse() (*bitstring.FixedBitSet, error) {
	v, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}
	return v, nil
}

type binaryOp func(a, b *bitstring.FixedBitSet) (*bitstring.FixedBitSet, error)

func (p *exprParser) parseBinary(op string, operand func() (*bitstring.FixedBitSet, error), apply binaryOp) (*bitstring.FixedBitSet, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.isOp(op) {
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		if left, err = apply(left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *exprParser) parseOr() (*bitstring.FixedBitSet, error) {
	return p.parseBinary("|", p.parseXor, (*bitstring.FixedBitSet).Or)
}

func (p *exprParser) parseXor() (*bitstring.FixedBitSet, error) {
	return p.parseBinary("^", p.parseAnd, (*bitstring.FixedBitSet).Xor)
}

func (p *exprParser) parseAnd() (*bitstring.FixedBitSet, error) {
	return p.parseBinary("&", p.parseShift, (*bitstring.FixedBitSet).And)
}

func (p *exprParser) parseShift() (*bitstring.FixedBitSet, error) {
	v, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("<<") || p.isOp(">>") {
		op := p.next().text
		t := p.next()
		if t.kind != tokNumber {
			return nil, fmt.Errorf("%w: %s needs a shift count", ErrSyntax, op)
		}
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, fmt.Errorf("%w: bad shift count %q", ErrSyntax, t.text)
		}
		if op == "<<" {
			v, err = v.ShiftLeft(n)
		} else {
			v, err = v.ShiftRight(n)
		}
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (p *exprParser) parseUnary() (*bitstring.FixedBitSet, error) {
	if p.isOp("~") {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return v.Not(), nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (*bitstring.FixedBitSet, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return bitstring.Parse(p.width, t.text)
	case tokIdent:
		v, ok := p.lookup(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefined, t.text)
		}
		return v, nil
	case tokOp:
		if t.text == "(" {
			v, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if !p.isOp(")") {
				return nil, fmt.Errorf("%w: missing )", ErrSyntax)
			}
			p.next()
			return v, nil
		}
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
}

// evalExpr evaluates src with bit literals parsed at the given width.
func evalExpr(src string, width int, lookup func(string) (*bitstring.FixedBitSet, bool)) (*bitstring.FixedBitSet, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens, width: width, lookup: lookup}
	return p.parse()
}
