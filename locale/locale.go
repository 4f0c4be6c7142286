// Package locale maps a selected country to the currency and locale used to display
// amounts. It only affects formatting of already computed values; stored amounts are
// never converted.
package locale

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Profile describes one selectable country.
type Profile struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Flag     string `json:"flag"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
	Symbol   string `json:"symbol"`
}

// Profiles lists the selectable countries. The first one is the default.
var Profiles = []Profile{
	{Code: "US", Name: "United States", Flag: "🇺🇸", Currency: "USD", Locale: "en-US", Symbol: "$"},
	{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧", Currency: "GBP", Locale: "en-GB", Symbol: "£"},
	{Code: "IN", Name: "India", Flag: "🇮🇳", Currency: "INR", Locale: "en-IN", Symbol: "₹"},
	{Code: "AE", Name: "United Arab Emirates", Flag: "🇦🇪", Currency: "AED", Locale: "ar-AE", Symbol: "AED "},
	{Code: "AU", Name: "Australia", Flag: "🇦🇺", Currency: "AUD", Locale: "en-AU", Symbol: "$"},
	{Code: "CA", Name: "Canada", Flag: "🇨🇦", Currency: "CAD", Locale: "en-CA", Symbol: "$"},
}

// Default returns the fallback profile.
func Default() Profile {
	return Profiles[0]
}

// Lookup returns the profile for code, ignoring case.
func Lookup(code string) (Profile, bool) {
	code = strings.TrimSpace(code)
	for _, p := range Profiles {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return Profile{}, false
}

// Resolve returns the profile for code, falling back to Default for unknown codes.
func Resolve(code string) Profile {
	if p, ok := Lookup(code); ok {
		return p
	}
	return Default()
}

// Label returns the "<flag> <name>" text used in country pickers.
func (p Profile) Label() string {
	return p.Flag + " " + p.Name
}

// Tag returns the language tag of the profile's locale.
func (p Profile) Tag() language.Tag {
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// scale returns the number of fraction digits conventionally shown for the currency.
func (p Profile) scale() int {
	unit, err := currency.ParseISO(p.Currency)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Format renders amount as money in the profile's locale, e.g. "$1,234.50" or
// "-£12.00".
func (p Profile) Format(amount decimal.Decimal) string {
	printer := message.NewPrinter(p.Tag())
	scale := p.scale()

	value := amount.Abs().Round(int32(scale)).InexactFloat64()
	digits := printer.Sprint(number.Decimal(value, number.Scale(scale)))

	sign := ""
	if amount.Round(int32(scale)).IsNegative() {
		sign = "-"
	}
	return sign + p.Symbol + digits
}
