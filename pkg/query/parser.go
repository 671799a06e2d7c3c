// Package query translates where expressions such as
//
//	type=f AND (user_name~=admin OR NOT exists(connection)) AND date>=2024-03-01
//
// into the Lucene query string syntax accepted by the log search endpoint.
package query

import (
	"fmt"
	"strings"
)

type Logic int

const (
	LogicNone Logic = iota
	LogicAnd
	LogicOr
	LogicNot
)

// Node is a condition when Logic is LogicNone, a group otherwise.
type Node struct {
	Logic    Logic
	Children []Node

	Field  string
	Op     string
	Value  string
	Quoted bool
}

// Parse parses a where expression. An empty expression returns nil.
//
// Grammar:
//
//	or_expr   = and_expr (("OR" | "||") and_expr)*
//	and_expr  = not_expr (("AND" | "&&")? not_expr)*
//	not_expr  = ("NOT" | "!")? primary
//	primary   = "(" or_expr ")" | "exists" "(" field ")" | field operator value
//	operator  = "=" | ":" | "!=" | "~=" | "!~=" | ">" | ">=" | "<" | "<=" | "contains" | "like"
func Parse(expr string) (*Node, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	tokens, err := NewLexer(expr).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("lexer error: %w", err)
	}

	p := &parser{tokens: tokens}
	n, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("parser error: %w", err)
	}
	if t := p.current(); t.Type != TokenEOF {
		return nil, fmt.Errorf("parser error: unexpected %s '%s' at position %d", t.Type, t.Value, t.Pos)
	}
	return &n, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expect(t TokenType) (Token, error) {
	if c := p.current(); c.Type != t {
		return c, fmt.Errorf("expected %s at position %d, got %s", t, c.Pos, c.Type)
	}
	return p.advance(), nil
}

func (p *parser) parseOr() (Node, error) {
	return p.parseList(LogicOr, func(t Token) bool { return t.Type == TokenOr }, true, p.parseAnd)
}

// a missing operator between two terms means AND.
func (p *parser) parseAnd() (Node, error) {
	return p.parseList(LogicAnd, func(t Token) bool {
		switch t.Type {
		case TokenAnd:
			return true
		case TokenField, TokenNot, TokenLParen, TokenExists:
			return true
		}
		return false
	}, false, p.parseNot)
}

func (p *parser) parseList(logic Logic, more func(Token) bool, alwaysSeparator bool, next func() (Node, error)) (Node, error) {
	first, err := next()
	if err != nil {
		return Node{}, err
	}

	children := []Node{first}
	for more(p.current()) {
		if alwaysSeparator || p.current().Type == TokenAnd {
			p.advance()
		}
		n, err := next()
		if err != nil {
			return Node{}, err
		}
		children = append(children, n)
	}

	if len(children) == 1 {
		return first, nil
	}
	return Node{Logic: logic, Children: children}, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.current().Type != TokenNot {
		return p.parsePrimary()
	}
	p.advance()

	inner, err := p.parsePrimary()
	if err != nil {
		return Node{}, err
	}
	return Node{Logic: LogicNot, Children: []Node{inner}}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.current().Type {
	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return Node{}, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return Node{}, err
		}
		return inner, nil

	case TokenExists:
		p.advance()
		if _, err := p.expect(TokenLParen); err != nil {
			return Node{}, err
		}
		field, err := p.expect(TokenField)
		if err != nil {
			return Node{}, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return Node{}, err
		}
		return Node{Field: field.Value, Op: OpExists}, nil
	}

	field, err := p.expect(TokenField)
	if err != nil {
		return Node{}, err
	}
	op, err := p.expect(TokenOperator)
	if err != nil {
		return Node{}, err
	}
	value, err := p.expect(TokenValue)
	if err != nil {
		return Node{}, err
	}
	return Node{Field: field.Value, Op: op.Value, Value: value.Value, Quoted: value.Quoted}, nil
}
