package entry

import (
	"encoding/json"
	stdErrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func validEntry() Entry {
	return Entry{
		ID:            "e1",
		Description:   "Groceries",
		Amount:        decimal.RequireFromString("42.50"),
		Date:          "2024-03-01",
		Category:      Food,
		PaymentMethod: DebitCard,
	}
}

func TestEntryType(t *testing.T) {
	tests := []struct {
		amount string
		want   Type
	}{
		{"100", Expense},
		{"0", Expense},
		{"0.01", Expense},
		{"-0.01", Income},
		{"-2500", Income},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			e := validEntry()
			e.Amount = decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, e.Type())
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validEntry().Validate())
	})

	t.Run("EmptyNotesAllowed", func(t *testing.T) {
		e := validEntry()
		e.Notes = ""
		assert.NoError(t, e.Validate())
	})

	t.Run("CollectsEveryField", func(t *testing.T) {
		e := Entry{Description: "   ", Date: "2024-13-01", Category: "Pets", PaymentMethod: "Cheque"}
		err := e.Validate()
		assert.Error(t, err)

		var verrs *ValidationErrors
		assert.True(t, stdErrors.As(err, &verrs))
		assert.Equal(t, 4, len(verrs.Errors))

		fields := make([]string, 0, len(verrs.Errors))
		for _, err := range verrs.Errors {
			var ferr *ValidationError
			assert.True(t, stdErrors.As(err, &ferr))
			fields = append(fields, ferr.GetField())
		}
		assert.Equal(t, []string{"description", "date", "category", "paymentMethod"}, fields)
	})

	t.Run("MissingDate", func(t *testing.T) {
		e := validEntry()
		e.Date = ""
		err := e.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "date: is required")
	})
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" housing ")
	assert.NoError(t, err)
	assert.Equal(t, Housing, c)

	_, err = ParseCategory("Pets")
	assert.Error(t, err)

	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %s should be valid", c)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentMethod
	}{
		{"Cash", Cash},
		{"debit card", DebitCard},
		{"credit-card", CreditCard},
		{"online_transfer", OnlineTransfer},
		{"WALLET", Wallet},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePaymentMethod("cheque")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, Date("2024-02-29"), d)

	for _, bad := range []string{"2023-02-29", "2024-2-1", "01/02/2024", ""} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" -12.5 ")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("-12.5")))

	_, err = ParseAmount("twelve")
	var ferr *ValidationError
	assert.True(t, stdErrors.As(err, &ferr))
	assert.Equal(t, "amount", ferr.Field)
}

func TestEntryJSON(t *testing.T) {
	e := validEntry()
	e.Amount = decimal.RequireFromString("-300")

	data, err := json.Marshal(e)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"type":"income"`)
	assert.Contains(t, string(data), `"paymentMethod":"Debit Card"`)

	// A stale stored type never overrides the sign of the amount.
	stale := `{"id":"x","description":"Salary","amount":-300,"date":"2024-03-01","category":"Savings","paymentMethod":"Online Transfer","notes":"","type":"expense"}`
	var decoded Entry
	assert.NoError(t, json.Unmarshal([]byte(stale), &decoded))
	assert.Equal(t, Income, decoded.Type())
	assert.True(t, decoded.Amount.Equal(decimal.NewFromInt(-300)))
	assert.Equal(t, OnlineTransfer, decoded.PaymentMethod)
}
