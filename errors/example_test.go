package errors_test

import (
	"fmt"

	"github.com/robinvdvleuten/spendlog/calc"
	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/errors"
)

// Example showing how to use TextFormatter for CLI output
func ExampleTextFormatter() {
	err := entry.Entry{Description: "Rent", Date: "2024-13-01", Category: "Pets", PaymentMethod: entry.Cash}.Validate()

	fmt.Println(errors.NewTextFormatter().Format(err))
	// Output:
	// invalid entry:
	//    date: invalid date "2024-13-01" (expected YYYY-MM-DD)
	//    category: unknown category "Pets"
}

// Example showing how to use JSONFormatter for API output
func ExampleJSONFormatter() {
	_, err := calc.Evaluate("8/0")

	fmt.Println(errors.NewJSONFormatter().Format(err))
	// Output:
	// {"type":"evaluation","message":"evaluation error at position 1: division by zero","position":1,"details":{"expression":"8/0"}}
}
