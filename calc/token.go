package calc

import (
	"fmt"
	"strings"
)

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	NUMBER
	PLUS
	MINUS
	ASTERISK
	SLASH
)

var tokenNames = [...]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	NUMBER:   "NUMBER",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	ASTERISK: "ASTERISK",
	SLASH:    "SLASH",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token of an arithmetic expression.
type Token struct {
	Type TokenType
	Pos  int // byte offset in the expression
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Type, t.Text)
}

// Operators are the binary operators the calculator understands.
const Operators = "+-*/"

// IsOperator reports whether ch is one of the calculator operators.
func IsOperator(ch byte) bool {
	return strings.IndexByte(Operators, ch) >= 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Sanitize drops every character outside digits, operators and the decimal point.
func Sanitize(expr string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 && (isDigit(byte(r)) || r == '.' || IsOperator(byte(r))) {
			return r
		}
		return -1
	}, expr)
}

// Tokenize splits expr into tokens, terminated by an EOF token. A number is a run of
// digits with at most one decimal point. Whitespace is skipped; any other character is
// reported as an *EvaluationError.
func Tokenize(expr string) ([]Token, error) {
	var tokens []Token

	for pos := 0; pos < len(expr); {
		ch := expr[pos]

		switch {
		case ch == ' ' || ch == '\t':
			pos++

		case ch == '+':
			tokens = append(tokens, Token{Type: PLUS, Pos: pos, Text: "+"})
			pos++
		case ch == '-':
			tokens = append(tokens, Token{Type: MINUS, Pos: pos, Text: "-"})
			pos++
		case ch == '*':
			tokens = append(tokens, Token{Type: ASTERISK, Pos: pos, Text: "*"})
			pos++
		case ch == '/':
			tokens = append(tokens, Token{Type: SLASH, Pos: pos, Text: "/"})
			pos++

		case isDigit(ch) || ch == '.':
			start := pos
			foundDot := false
			for pos < len(expr) {
				c := expr[pos]
				if isDigit(c) {
					pos++
				} else if c == '.' && !foundDot {
					foundDot = true
					pos++
				} else {
					break
				}
			}
			tokens = append(tokens, Token{Type: NUMBER, Pos: start, Text: expr[start:pos]})

		default:
			return nil, &EvaluationError{
				Expression: expr,
				Pos:        pos,
				Msg:        fmt.Sprintf("unexpected character %q", ch),
			}
		}
	}

	tokens = append(tokens, Token{Type: EOF, Pos: len(expr)})
	return tokens, nil
}
