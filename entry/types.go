package entry

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of spending categories an entry can belong to.
type Category string

const (
	Housing        Category = "Housing"
	Transportation Category = "Transportation"
	Food           Category = "Food"
	Utilities      Category = "Utilities"
	Health         Category = "Health"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Travel         Category = "Travel"
	Education      Category = "Education"
	Savings        Category = "Savings"
	Other          Category = "Other"
)

// Categories lists every category in presentation order.
var Categories = []Category{
	Housing,
	Transportation,
	Food,
	Utilities,
	Health,
	Shopping,
	Entertainment,
	Travel,
	Education,
	Savings,
	Other,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Housing, Transportation, Food, Utilities, Health, Shopping,
		Entertainment, Travel, Education, Savings, Other:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory resolves s to a category, ignoring case and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// PaymentMethod is the closed set of ways an entry can be paid.
type PaymentMethod string

const (
	Cash           PaymentMethod = "Cash"
	DebitCard      PaymentMethod = "Debit Card"
	CreditCard     PaymentMethod = "Credit Card"
	OnlineTransfer PaymentMethod = "Online Transfer"
	Wallet         PaymentMethod = "Wallet"
)

// PaymentMethods lists every payment method in presentation order.
var PaymentMethods = []PaymentMethod{
	Cash,
	DebitCard,
	CreditCard,
	OnlineTransfer,
	Wallet,
}

// Valid reports whether p is one of the known payment methods.
func (p PaymentMethod) Valid() bool {
	switch p {
	case Cash, DebitCard, CreditCard, OnlineTransfer, Wallet:
		return true
	}
	return false
}

func (p PaymentMethod) String() string { return string(p) }

// ParsePaymentMethod resolves s to a payment method. Matching ignores case, and
// dashes or underscores may stand in for spaces ("credit-card").
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	normalized := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	for _, p := range PaymentMethods {
		if strings.EqualFold(string(p), normalized) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// DateLayout is the only accepted date representation.
const DateLayout = "2006-01-02"

// Date is a calendar date kept in its ISO 8601 string form.
// The zero value is the empty string and means "no date".
type Date string

// ParseDate validates s as a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	// time.Parse accepts only the exact layout, but re-format to be sure the
	// stored form is canonical and zero padded.
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar date of t.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// Valid reports whether d is a well-formed calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

func (d Date) String() string { return string(d) }

// Time converts the date to midnight UTC. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}
