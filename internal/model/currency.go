package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency selects the display locale for monetary amounts. It never
// affects stored numeric values.
type Currency string

// Supported currencies.
const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAED Currency = "AED"
)

// DefaultCurrency is used when no currency has been persisted yet.
const DefaultCurrency = CurrencyINR

// Currencies lists every supported currency.
func Currencies() []Currency {
	return []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyAED}
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyAED:
		return true
	}
	return false
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyINR:
		return "₹"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	case CurrencyAED:
		return "AED "
	}
	return string(c) + " "
}

// Format renders an amount with the currency symbol, thousands grouping,
// and two decimal places. Negative amounts keep their sign ahead of the
// symbol, matching how the dashboard shows a negative balance.
func (c Currency) Format(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	fixed := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + c.Symbol() + groupThousands(whole) + "." + frac
}

// groupThousands inserts comma separators into a bare digit string.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// FormatAmount renders a bare amount the way JSON and CSV exports print
// numbers: no trailing zeros, no grouping.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
