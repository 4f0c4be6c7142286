package calc

import (
	stdErrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		// Basic operations
		{name: "addition", expr: "5+3", want: "8"},
		{name: "subtraction", expr: "10-3", want: "7"},
		{name: "multiplication", expr: "5*2", want: "10"},
		{name: "division", expr: "40/4", want: "10"},
		// Decimals
		{name: "decimal division", expr: "40.00/3", want: "13.333333333333333"},
		{name: "leading point", expr: ".5+.5", want: "1"},
		{name: "trailing point", expr: "5.*2", want: "10"},
		// Precedence and associativity
		{name: "precedence multiply first", expr: "12+3*4", want: "24"},
		{name: "precedence divide first", expr: "20-10/2", want: "15"},
		{name: "left associative subtraction", expr: "10-4-3", want: "3"},
		{name: "left associative division", expr: "100/10/5", want: "2"},
		{name: "mixed", expr: "2*3+4*5-6/2", want: "23"},
		// Rounding
		{name: "thirds multiplied back", expr: "2/3*3", want: "2"},
		{name: "third multiplied back", expr: "1/3*3", want: "1"},
		{name: "thirds summed", expr: "1/3+1/3+1/3", want: "1"},
		// Unary minus
		{name: "unary minus", expr: "-5+3", want: "-2"},
		{name: "unary after operator", expr: "4*-2", want: "-8"},
		// Sanitizing
		{name: "strips foreign characters", expr: "1 2 + x3", want: "15"},
		{name: "strips parentheses", expr: "(2+3)*4", want: "14"},
		// Errors
		{name: "division by zero", expr: "5/0", wantErr: true},
		{name: "trailing operator", expr: "5+", wantErr: true},
		{name: "leading operator", expr: "*5", wantErr: true},
		{name: "two points", expr: "1.2.3", wantErr: true},
		{name: "lone point", expr: ".", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if tt.wantErr {
				var evalErr *EvaluationError
				assert.True(t, stdErrors.As(err, &evalErr), "expected EvaluationError, got %v", err)
				return
			}

			assert.NoError(t, err)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got.String(), want.String())
		})
	}
}

func TestEvaluationErrorPosition(t *testing.T) {
	_, err := Evaluate("12/0")

	var evalErr *EvaluationError
	assert.True(t, stdErrors.As(err, &evalErr))
	assert.Equal(t, 2, evalErr.GetPosition())
	assert.Contains(t, evalErr.Error(), "division by zero")
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("12.5+3*-4")
	assert.NoError(t, err)

	var types []TokenType
	var texts []string
	for _, tok := range tokens {
		types = append(types, tok.Type)
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []TokenType{NUMBER, PLUS, NUMBER, ASTERISK, MINUS, NUMBER, EOF}, types)
	assert.Equal(t, []string{"12.5", "+", "3", "*", "-", "4", ""}, texts)
	assert.Equal(t, 5, tokens[2].Pos)
}

func TestTokenizeRejectsForeignCharacters(t *testing.T) {
	_, err := Tokenize("2^3")

	var evalErr *EvaluationError
	assert.True(t, stdErrors.As(err, &evalErr))
	assert.Equal(t, 1, evalErr.Pos)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "12+34", Sanitize("12 + 3 × 4"))
	assert.Equal(t, "1+2", Sanitize("alert(1)+2;"))
	assert.Equal(t, "", Sanitize("abc"))
}
