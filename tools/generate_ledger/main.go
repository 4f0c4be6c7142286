// Large Ledger Generator
//
// This tool generates a large spendlog ledger for performance testing and profiling.
// It creates realistic expense and income entries to stress-test filtering, aggregation
// and the storage backends.
//
// Usage:
//
//	go run main.go large.json
//	go run main.go large.json 200000            # Specify the number of entries
//	go run main.go large.db 200000 sqlite       # Write a SQLite ledger instead
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/spendlog/entry"
	"github.com/robinvdvleuten/spendlog/storage"
)

const (
	defaultEntryCount = 50000
)

var (
	descriptions = map[entry.Category][]string{
		entry.Housing:        {"Rent", "Mortgage", "Repairs", "Home insurance"},
		entry.Transportation: {"Fuel", "Train ticket", "Taxi", "Parking", "Bus pass"},
		entry.Food:           {"Groceries", "Restaurant dinner", "Coffee", "Lunch with team", "Bakery"},
		entry.Utilities:      {"Electricity bill", "Water bill", "Internet", "Phone plan"},
		entry.Health:         {"Pharmacy", "Dentist", "Doctor visit", "Gym membership"},
		entry.Shopping:       {"Clothes", "Electronics", "Gift", "Furniture", "Online order"},
		entry.Entertainment:  {"Cinema", "Concert", "Streaming subscription", "Museum", "Books"},
		entry.Travel:         {"Flight", "Hotel", "Car rental", "Travel insurance"},
		entry.Education:      {"Course fee", "Textbooks", "Workshop"},
		entry.Savings:        {"Salary", "Bonus", "Interest", "Refund"},
		entry.Other:          {"Bank fee", "Donation", "Miscellaneous"},
	}

	// fallback describes categories without their own descriptions.
	fallback = []string{"Expense"}

	notes = []string{
		"", "", "", "paid in advance", "shared with roommate", "reimbursable",
		"monthly", "寿司 night", "see receipt",
	}
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: generate_ledger <path> [entries] [json|sqlite]")
		os.Exit(2)
	}

	path := os.Args[1]
	count := defaultEntryCount
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			count = n
		}
	}
	backend := storage.BackendJSON
	if len(os.Args) > 3 {
		backend = storage.Backend(os.Args[3])
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, backend, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	entries := generate(count, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	start := time.Now()
	if err := store.SaveAll(ctx, entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %d entries in %s\n", len(entries), time.Since(start).Round(time.Millisecond))
}

// generate returns count entries, newest first, starting at start.
func generate(count int, start time.Time) []entry.Entry {
	entries := make([]entry.Entry, count)
	date := start

	for i := count - 1; i >= 0; i-- {
		category := entry.Categories[rand.Intn(len(entry.Categories))]
		options, ok := descriptions[category]
		if !ok {
			options = fallback
		}

		amount := randAmount(1, 500)
		if category == entry.Housing {
			amount = randAmount(300, 2500)
		}
		if category == entry.Savings {
			amount = randAmount(500, 5000).Neg()
		}

		entries[i] = entry.Entry{
			ID:            uuid.NewString(),
			Description:   options[rand.Intn(len(options))],
			Amount:        amount,
			Date:          entry.DateOf(date),
			Category:      category,
			PaymentMethod: entry.PaymentMethods[rand.Intn(len(entry.PaymentMethods))],
			Notes:         notes[rand.Intn(len(notes))],
		}

		// Several entries per day on average
		if rand.Intn(3) == 0 {
			date = date.AddDate(0, 0, 1)
		}
	}

	return entries
}

// randAmount returns a random amount in [min, max) with two decimal places.
func randAmount(min, max int) decimal.Decimal {
	cents := int64(min*100 + rand.Intn((max-min)*100))
	return decimal.New(cents, -2)
}
