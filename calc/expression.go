package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Expression evaluation for the calculator buffer.
//
// Supports:
//   - Binary operators: +, -, *, /
//   - Unary minus on an operand ("-5+3", "2*-1")
//   - Decimal numbers, including a bare leading or trailing point (".5", "5.")
//
// Operator precedence (low to high):
//  1. + -     (addition, subtraction)
//  2. * /     (multiplication, division)
//
// Operators of equal precedence associate to the left, so "8-3-2" is 3 and "8/4/2" is 1.
// The text is never executed: it is tokenized, parsed with a Pratt parser and reduced
// with decimal arithmetic.

// EvaluationError is returned when an expression is malformed or its value is not
// finite (division by zero).
type EvaluationError struct {
	Expression string
	Pos        int
	Msg        string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error at position %d: %s", e.Pos, e.Msg)
}

// GetPosition returns the byte offset of the error in the expression.
func (e *EvaluationError) GetPosition() int {
	return e.Pos
}

// resultPlaces is the number of fractional digits a result is rounded to.
const resultPlaces = 15

// Evaluate sanitizes expr and computes its value.
func Evaluate(expr string) (decimal.Decimal, error) {
	sanitized := Sanitize(expr)

	tokens, err := Tokenize(sanitized)
	if err != nil {
		return decimal.Zero, err
	}

	p := &parser{expr: sanitized, tokens: tokens}

	result, err := p.parseExpr(0)
	if err != nil {
		return decimal.Zero, err
	}

	// Ensure we consumed all tokens
	if tok := p.peek(); tok.Type != EOF {
		return decimal.Zero, p.errorAt(tok, "unexpected %s", describe(tok))
	}

	// Drop the last digit of division precision so 2/3*3 comes out as 2.
	return result.Round(resultPlaces), nil
}

// parser walks a token slice produced by Tokenize.
type parser struct {
	expr   string
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorAt(tok Token, format string, args ...any) *EvaluationError {
	return &EvaluationError{
		Expression: p.expr,
		Pos:        tok.Pos,
		Msg:        fmt.Sprintf(format, args...),
	}
}

// parseExpr is the Pratt parser core - handles operator precedence
func (p *parser) parseExpr(minPrec int) (decimal.Decimal, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek()
		prec := precedence(op.Type)
		if prec == 0 || prec < minPrec {
			break
		}

		p.advance()

		// prec+1 makes operators of equal precedence associate to the left
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return decimal.Zero, err
		}

		left, err = p.apply(left, op, right)
		if err != nil {
			return decimal.Zero, err
		}
	}

	return left, nil
}

// parsePrimary parses a number, optionally preceded by unary minus signs.
func (p *parser) parsePrimary() (decimal.Decimal, error) {
	tok := p.peek()

	switch tok.Type {
	case MINUS:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return decimal.Zero, err
		}
		return operand.Neg(), nil

	case NUMBER:
		p.advance()
		return p.parseNumber(tok)

	default:
		return decimal.Zero, p.errorAt(tok, "expected number, got %s", describe(tok))
	}
}

func (p *parser) parseNumber(tok Token) (decimal.Decimal, error) {
	text := tok.Text
	if text == "." {
		return decimal.Zero, p.errorAt(tok, "invalid number %q", text)
	}
	if text[0] == '.' {
		text = "0" + text
	}
	if text[len(text)-1] == '.' {
		text += "0"
	}

	num, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, p.errorAt(tok, "invalid number %q: %v", tok.Text, err)
	}
	return num, nil
}

// apply applies a binary operator to two operands
func (p *parser) apply(left decimal.Decimal, op Token, right decimal.Decimal) (decimal.Decimal, error) {
	switch op.Type {
	case PLUS:
		return left.Add(right), nil
	case MINUS:
		return left.Sub(right), nil
	case ASTERISK:
		return left.Mul(right), nil
	case SLASH:
		if right.IsZero() {
			return decimal.Zero, p.errorAt(op, "division by zero")
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, p.errorAt(op, "unknown operator %q", op.Text)
	}
}

// precedence returns operator precedence (higher = tighter binding), 0 for non-operators
func precedence(t TokenType) int {
	switch t {
	case PLUS, MINUS:
		return 1
	case ASTERISK, SLASH:
		return 2
	default:
		return 0
	}
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", tok.Text)
}
