package query

import (
	"fmt"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenField
	TokenOperator
	TokenValue
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
	TokenExists
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of expression"
	case TokenField:
		return "field"
	case TokenOperator:
		return "operator"
	case TokenValue:
		return "value"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenExists:
		return "exists"
	}
	return "unknown"
}

type Token struct {
	Type   TokenType
	Value  string
	Pos    int
	Quoted bool
}

// operators, longest first.
var operators = []string{"!~=", "~=", "!=", ">=", "<=", ">", "<", "=", ":"}

// Lexer splits a where expression into tokens.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) Tokenize() ([]Token, error) {
	l.tokens = nil
	l.pos = 0

	for {
		l.skipSpaces()
		if l.pos >= len(l.input) {
			break
		}

		switch c := l.input[l.pos]; {
		case c == '(':
			l.emit(TokenLParen, "(", l.pos)
			l.pos++
			continue
		case c == ')':
			l.emit(TokenRParen, ")", l.pos)
			l.pos++
			continue
		case strings.HasPrefix(l.input[l.pos:], "&&"):
			l.emit(TokenAnd, "&&", l.pos)
			l.pos += 2
			continue
		case strings.HasPrefix(l.input[l.pos:], "||"):
			l.emit(TokenOr, "||", l.pos)
			l.pos += 2
			continue
		case c == '!' && l.pos+1 < len(l.input) && (l.input[l.pos+1] == '(' || isSpace(l.input[l.pos+1])):
			l.emit(TokenNot, "!", l.pos)
			l.pos++
			continue
		}

		start := l.pos
		word := l.readIdent()
		if word == "" {
			return nil, fmt.Errorf("unexpected character %q at position %d", l.input[l.pos], l.pos)
		}

		switch strings.ToUpper(word) {
		case "AND", "OR", "NOT":
			if l.atBoundary() {
				l.emit(keywordToken(word), word, start)
				continue
			}
		case "EXISTS", "_EXISTS_":
			if l.peekNonSpace() == '(' {
				l.emit(TokenExists, word, start)
				if err := l.readExistsArg(); err != nil {
					return nil, err
				}
				continue
			}
		}

		if err := l.readCondition(word, start); err != nil {
			return nil, err
		}
	}

	l.emit(TokenEOF, "", l.pos)
	return l.tokens, nil
}

func keywordToken(word string) TokenType {
	switch strings.ToUpper(word) {
	case "AND":
		return TokenAnd
	case "OR":
		return TokenOr
	}
	return TokenNot
}

func (l *Lexer) emit(t TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Pos: pos})
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isIdent(c byte) bool {
	r := rune(c)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || c == '_' || c == '-' || c == '.'
}

func (l *Lexer) skipSpaces() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) && isIdent(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *Lexer) atBoundary() bool {
	return l.pos >= len(l.input) || isSpace(l.input[l.pos]) || l.input[l.pos] == '('
}

func (l *Lexer) peekNonSpace() byte {
	for i := l.pos; i < len(l.input); i++ {
		if !isSpace(l.input[i]) {
			return l.input[i]
		}
	}
	return 0
}

// readCondition reads the operator and value following field.
func (l *Lexer) readCondition(field string, start int) error {
	l.emit(TokenField, field, start)
	l.skipSpaces()

	opPos := l.pos
	op := l.readOperator()
	if op == "" {
		return fmt.Errorf("expected operator after field '%s' at position %d", field, l.pos)
	}
	l.emit(TokenOperator, op, opPos)

	l.skipSpaces()
	if l.pos >= len(l.input) {
		return fmt.Errorf("expected value after '%s %s' at position %d", field, op, l.pos)
	}

	valuePos := l.pos
	if q := l.input[l.pos]; q == '"' || q == '\'' {
		value, err := l.readQuoted(q)
		if err != nil {
			return err
		}
		l.tokens = append(l.tokens, Token{Type: TokenValue, Value: value, Pos: valuePos, Quoted: true})
		return nil
	}

	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if isSpace(c) || c == '(' || c == ')' ||
			strings.HasPrefix(l.input[l.pos:], "&&") || strings.HasPrefix(l.input[l.pos:], "||") {
			break
		}
		l.pos++
	}
	if l.pos == valuePos {
		return fmt.Errorf("expected value after '%s %s' at position %d", field, op, l.pos)
	}
	l.emit(TokenValue, l.input[valuePos:l.pos], valuePos)
	return nil
}

func (l *Lexer) readOperator() string {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return op
		}
	}

	// keyword operators
	start := l.pos
	word := l.readIdent()
	switch strings.ToUpper(word) {
	case "CONTAINS", "LIKE":
		return "~="
	}
	l.pos = start
	return ""
}

func (l *Lexer) readQuoted(quote byte) (string, error) {
	start := l.pos
	l.pos++

	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.input):
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case c == quote:
			l.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", fmt.Errorf("unterminated quoted string starting at position %d", start)
}

func (l *Lexer) readExistsArg() error {
	l.skipSpaces()
	l.emit(TokenLParen, "(", l.pos)
	l.pos++
	l.skipSpaces()

	fieldPos := l.pos
	field := l.readIdent()
	if field == "" {
		return fmt.Errorf("expected field name in exists() at position %d", l.pos)
	}
	l.emit(TokenField, field, fieldPos)

	l.skipSpaces()
	if l.pos >= len(l.input) || l.input[l.pos] != ')' {
		return fmt.Errorf("expected ')' in exists() at position %d", l.pos)
	}
	l.emit(TokenRParen, ")", l.pos)
	l.pos++
	return nil
}
