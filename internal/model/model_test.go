package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", d.String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-15"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "15/06/2024", "not a date"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:          1,
		Type:        TypeExpense,
		Category:    "food",
		Amount:      12.5,
		Date:        NewDate(2024, time.June, 1),
		Description: "Lunch",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }},
		{"empty category", func(tx *Transaction) { tx.Category = "" }},
		{"zero amount", func(tx *Transaction) { tx.Amount = 0 }},
		{"negative amount", func(tx *Transaction) { tx.Amount = -5 }},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			assert.Error(t, tx.Validate())
		})
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	require.NotEmpty(t, cats)

	seen := make(map[string]bool)
	for _, c := range cats {
		assert.True(t, c.IsDefault, "seed category %s must be default", c.Value)
		assert.False(t, seen[c.Value], "duplicate key %s", c.Value)
		seen[c.Value] = true
		require.NoError(t, c.Validate())
	}

	// Mutating one copy must not leak into the next.
	cats[0].Label = "changed"
	assert.NotEqual(t, "changed", DefaultCategories()[0].Label)
}

func TestCurrencyFormat(t *testing.T) {
	tests := []struct {
		currency Currency
		amount   float64
		want     string
	}{
		{CurrencyUSD, 0, "$0.00"},
		{CurrencyUSD, 1234.5, "$1,234.50"},
		{CurrencyINR, 1234567.89, "₹1,234,567.89"},
		{CurrencyEUR, -42, "-€42.00"},
		{CurrencyAED, 999.999, "AED 1,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.currency.Format(tt.amount))
	}
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range Currencies() {
		assert.True(t, c.Valid())
	}
	assert.False(t, Currency("BTC").Valid())
	assert.False(t, Currency("").Valid())
}

func TestPeriod(t *testing.T) {
	p, err := ParsePeriod("2024-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-06", p.String())

	assert.True(t, p.Contains(NewDate(2024, time.June, 1)))
	assert.True(t, p.Contains(NewDate(2024, time.June, 30)))
	assert.False(t, p.Contains(NewDate(2024, time.July, 1)))
	assert.False(t, p.Contains(NewDate(2023, time.June, 15)))

	_, err = ParsePeriod("June 2024")
	assert.Error(t, err)
}
