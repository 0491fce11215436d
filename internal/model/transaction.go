// Package model defines the domain types shared across the application:
// transactions, categories, budgets, currencies, and periods.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TransactionType indicates whether a transaction is income or expense.
type TransactionType string

const (
	// TypeIncome represents money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money going out.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a recognized transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Date is a calendar date without a time-of-day component.
// It marshals to and from the YYYY-MM-DD form used in backups and CSV.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from its year, month, and day parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date{t}, nil
}

// CurrentDateString returns today in YYYY-MM-DD form.
func CurrentDateString() string {
	return time.Now().Format(dateLayout)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction is a single income or expense entry. Category holds the
// stable key of a Category, never its display label.
type Transaction struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
}

// Validate checks the field-level constraints that hold for every
// transaction regardless of the collections around it.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Category == "" {
		return fmt.Errorf("transaction category cannot be empty")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive, got %v", t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be empty")
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction description cannot be empty")
	}
	return nil
}
