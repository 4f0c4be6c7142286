// Package calc implements the embedded calculator: a small state machine over a text
// buffer holding a partially built arithmetic expression, driven by button-like actions,
// plus a structured evaluator for that expression.
//
// The buffer is never empty; it starts at, and falls back to, the sentinel "0".
//
// Example usage:
//
//	c := calc.New()
//	for _, key := range []string{"1", "2", "+", "3", "*", "4"} {
//	    _ = c.Press(key)
//	}
//	if err := c.Evaluate(); err != nil {
//	    fmt.Println(c.Display()) // "Error" until the revert window ends
//	}
//	fmt.Println(c.Expression()) // "24"
package calc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Sentinel is the value of an empty buffer.
	Sentinel = "0"

	// ErrorDisplay is shown in place of the buffer after a failed evaluation.
	ErrorDisplay = "Error"

	// DefaultRevertDelay is how long ErrorDisplay stays visible.
	DefaultRevertDelay = time.Second
)

// Button keys understood by Press besides digits, operators and the decimal point.
const (
	KeyClear   = "C"
	KeyDelete  = "DEL"
	KeyEquals  = "="
	KeyPercent = "%"
)

// ErrUnknownKey is returned by Append and Press for keys that are not calculator buttons.
var ErrUnknownKey = errors.New("unknown calculator key")

// trailingNumber matches the signed decimal operand at the end of the buffer.
var trailingNumber = regexp.MustCompile(`-?\d+(\.\d+)?$`)

// Calculator holds the expression buffer and the transient error display state.
// It is not safe for concurrent use.
type Calculator struct {
	expression  string
	errorUntil  time.Time
	now         func() time.Time
	revertDelay time.Duration
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock replaces the clock used to time the error display.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// WithRevertDelay sets how long the error display lasts.
func WithRevertDelay(d time.Duration) Option {
	return func(c *Calculator) {
		c.revertDelay = d
	}
}

// New creates a calculator with the buffer set to the sentinel.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		expression:  Sentinel,
		now:         time.Now,
		revertDelay: DefaultRevertDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Expression returns the current buffer.
func (c *Calculator) Expression() string {
	return c.expression
}

// Display returns what the calculator screen shows: ErrorDisplay during the revert
// window after a failed evaluation, the buffer otherwise.
func (c *Calculator) Display() string {
	if c.Failed() {
		return ErrorDisplay
	}
	return c.expression
}

// Failed reports whether the error display is currently active.
func (c *Calculator) Failed() bool {
	return !c.errorUntil.IsZero() && c.now().Before(c.errorUntil)
}

// IsKey reports whether Press accepts key.
func IsKey(key string) bool {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case KeyClear, "AC", "CLEAR", KeyDelete, "BACKSPACE", "DELETE", KeyEquals, "EQUALS", KeyPercent:
		return true
	}
	key = strings.TrimSpace(key)
	return len(key) == 1 && (isDigit(key[0]) || key[0] == '.' || IsOperator(key[0]))
}

// Press dispatches a single button key.
func (c *Calculator) Press(key string) error {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case KeyClear, "AC", "CLEAR":
		c.Clear()
		return nil
	case KeyDelete, "BACKSPACE", "DELETE":
		c.Delete()
		return nil
	case KeyEquals, "EQUALS":
		return c.Evaluate()
	case KeyPercent:
		c.Percent()
		return nil
	default:
		return c.Append(strings.TrimSpace(key))
	}
}

// Append adds a digit, operator or decimal point to the buffer.
//
//   - An operator replaces a trailing operator instead of following it.
//   - A decimal point is ignored when the current operand already has one.
//   - A digit replaces the sentinel "0"; a decimal point follows it ("0.").
func (c *Calculator) Append(key string) error {
	if len(key) != 1 || !(isDigit(key[0]) || key[0] == '.' || IsOperator(key[0])) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	c.resetDisplay()

	ch := key[0]
	last := c.expression[len(c.expression)-1]

	if IsOperator(ch) {
		if IsOperator(last) {
			c.expression = c.expression[:len(c.expression)-1] + key
		} else {
			c.expression += key
		}
		return nil
	}

	if ch == '.' && strings.Contains(c.currentOperand(), ".") {
		return nil
	}

	if c.expression == Sentinel && ch != '.' {
		c.expression = key
	} else {
		c.expression += key
	}
	return nil
}

// currentOperand returns the text after the last operator.
func (c *Calculator) currentOperand() string {
	i := strings.LastIndexAny(c.expression, Operators)
	return c.expression[i+1:]
}

// Delete removes the last character, falling back to the sentinel instead of
// leaving the buffer empty.
func (c *Calculator) Delete() {
	c.resetDisplay()

	if len(c.expression) <= 1 {
		c.expression = Sentinel
		return
	}
	c.expression = c.expression[:len(c.expression)-1]
}

// Clear resets the buffer to the sentinel.
func (c *Calculator) Clear() {
	c.resetDisplay()
	c.expression = Sentinel
}

// Percent divides the trailing signed operand by 100 in place. Without a trailing
// numeric operand it does nothing.
func (c *Calculator) Percent() {
	c.resetDisplay()

	loc := trailingNumber.FindStringIndex(c.expression)
	if loc == nil {
		return
	}

	value, err := decimal.NewFromString(c.expression[loc[0]:loc[1]])
	if err != nil {
		return
	}

	c.expression = c.expression[:loc[0]] + value.Div(decimal.NewFromInt(100)).String()
}

// Evaluate computes the buffer. On success the buffer becomes the canonical decimal
// form of the result. On failure the buffer is left exactly as it was, the display
// shows ErrorDisplay until the revert delay has passed, and the *EvaluationError is
// returned. A buffer with nothing to evaluate is left alone.
func (c *Calculator) Evaluate() error {
	c.resetDisplay()

	if Sanitize(c.expression) == "" {
		return nil
	}

	result, err := Evaluate(c.expression)
	if err != nil {
		c.errorUntil = c.now().Add(c.revertDelay)
		return err
	}

	c.expression = result.String()
	return nil
}

// resetDisplay ends the error display early; any new action reverts the screen to
// the buffer.
func (c *Calculator) resetDisplay() {
	c.errorUntil = time.Time{}
}
