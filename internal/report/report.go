// Package report computes derived views over the current ledger state.
// Everything here is a pure function of its inputs, recomputed per
// request; nothing is cached or persisted.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/finflow/finflow/internal/model"
)

// Summary holds the period totals shown on the dashboard.
type Summary struct {
	Income  float64
	Expense float64
	Balance float64
}

// InPeriod filters transactions down to those dated inside the period.
func InPeriod(txs []model.Transaction, p model.Period) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize sums income and expense amounts separately. Balance is
// income minus expense.
func Summarize(txs []model.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case model.TypeIncome:
			s.Income += t.Amount
		case model.TypeExpense:
			s.Expense += t.Amount
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}

// ExpenseByCategory sums expense amounts per category key. Income
// transactions are excluded.
func ExpenseByCategory(txs []model.Transaction) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range txs {
		if t.Type == model.TypeExpense {
			out[t.Category] += t.Amount
		}
	}
	return out
}

// BudgetStatus classifies how spending compares to a budget.
type BudgetStatus string

// Budget status bands. The thresholds are fixed design constants.
const (
	StatusOnTrack BudgetStatus = "on-track" // progress < 75
	StatusWarning BudgetStatus = "warning"  // 75 <= progress <= 100
	StatusOver    BudgetStatus = "over"     // progress > 100
)

const (
	warningThreshold = 75
	overThreshold    = 100
)

// Progress describes one category's spending against its budget.
type Progress struct {
	Budget    float64
	Spent     float64
	Remaining float64
	Percent   float64
	Status    BudgetStatus
}

// BudgetProgress computes spent-vs-budget progress. A zero budget
// yields zero percent regardless of spend.
func BudgetProgress(budget, spent float64) Progress {
	p := Progress{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget - spent,
	}
	if budget > 0 {
		p.Percent = spent / budget * 100
	}
	switch {
	case p.Percent > overThreshold:
		p.Status = StatusOver
	case p.Percent >= warningThreshold:
		p.Status = StatusWarning
	default:
		p.Status = StatusOnTrack
	}
	return p
}

// MonthBucket is one point of the monthly income/expense trend.
type MonthBucket struct {
	Key     string // YYYY-MM
	Income  float64
	Expense float64
}

// MonthlySeries groups all transactions by calendar year-month and sums
// income and expense per bucket, chronologically sorted. Months with no
// transactions are not emitted.
func MonthlySeries(txs []model.Transaction) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for _, t := range txs {
		key := fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Key: key}
			byMonth[key] = b
		}
		switch t.Type {
		case model.TypeIncome:
			b.Income += t.Amount
		case model.TypeExpense:
			b.Expense += t.Amount
		}
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	// YYYY-MM keys sort chronologically as strings.
	slices.SortFunc(out, func(a, b MonthBucket) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// SortKey selects the transaction list ordering.
type SortKey string

// Sort keys. SortNone orders by descending id (newest creation first)
// and ignores the sort order.
const (
	SortNone     SortKey = "none"
	SortDate     SortKey = "date"
	SortAmount   SortKey = "amount"
	SortCategory SortKey = "category"
)

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// TypeFilter narrows the list to one transaction type, or passes all.
type TypeFilter string

// Type filters.
const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

// Filter bundles the list view's filtering and ordering controls. All
// predicates are conjunctive.
type Filter struct {
	Search   string
	Category string
	Type     TypeFilter
	SortKey  SortKey
	Order    SortOrder
}

// SortAndFilter applies the filter's predicates and ordering to a copy
// of txs. The category sort compares resolved display labels, falling
// back to the raw key for a value with no category.
func SortAndFilter(txs []model.Transaction, cats []model.Category, f Filter) []model.Transaction {
	if f.Type == "" {
		f.Type = FilterAll
	}
	if f.SortKey == "" {
		f.SortKey = SortNone
	}

	search := strings.ToLower(f.Search)
	var filtered []model.Transaction
	for _, t := range txs {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Type != FilterAll && string(t.Type) != string(f.Type) {
			continue
		}
		filtered = append(filtered, t)
	}

	if f.SortKey == SortNone {
		// Newest creation first, independent of f.Order.
		slices.SortStableFunc(filtered, func(a, b model.Transaction) int {
			switch {
			case a.ID > b.ID:
				return -1
			case a.ID < b.ID:
				return 1
			}
			return 0
		})
		return filtered
	}

	labels := make(map[string]string, len(cats))
	for _, c := range cats {
		labels[c.Value] = c.Label
	}
	label := func(value string) string {
		if l, ok := labels[value]; ok {
			return l
		}
		return value
	}

	slices.SortStableFunc(filtered, func(a, b model.Transaction) int {
		var cmp int
		switch f.SortKey {
		case SortDate:
			cmp = a.Date.Compare(b.Date.Time)
		case SortAmount:
			switch {
			case a.Amount < b.Amount:
				cmp = -1
			case a.Amount > b.Amount:
				cmp = 1
			}
		case SortCategory:
			cmp = strings.Compare(label(a.Category), label(b.Category))
		}
		if f.Order == OrderDesc {
			cmp = -cmp
		}
		return cmp
	})
	return filtered
}
