package model

import (
	"fmt"
	"strings"
)

// Category is a named, typed bucket that transactions and budgets
// reference by its stable Value key. Value never changes after creation;
// Label and Icon are free to.
type Category struct {
	Value     string          `json:"value"`
	Label     string          `json:"label"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon"`
	IsDefault bool            `json:"isDefault"`
}

// Display returns the icon-prefixed label shown in lists and exports.
func (c Category) Display() string {
	return c.Icon + " " + c.Label
}

// Validate checks the field-level constraints of a category.
func (c Category) Validate() error {
	if c.Value == "" {
		return fmt.Errorf("category key cannot be empty")
	}
	if strings.TrimSpace(c.Label) == "" {
		return fmt.Errorf("category label cannot be empty")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("invalid category type %q", c.Type)
	}
	return nil
}

// DefaultCategories returns a fresh copy of the seeded category set.
// These are flagged IsDefault and can never be deleted or merged away.
func DefaultCategories() []Category {
	return []Category{
		{Value: "food", Label: "Food", Icon: "🍔", Type: TypeExpense, IsDefault: true},
		{Value: "transport", Label: "Transport", Icon: "🚗", Type: TypeExpense, IsDefault: true},
		{Value: "housing", Label: "Housing", Icon: "🏠", Type: TypeExpense, IsDefault: true},
		{Value: "utilities", Label: "Utilities", Icon: "💡", Type: TypeExpense, IsDefault: true},
		{Value: "entertainment", Label: "Entertainment", Icon: "🎬", Type: TypeExpense, IsDefault: true},
		{Value: "health", Label: "Health", Icon: "❤️", Type: TypeExpense, IsDefault: true},
		{Value: "shopping", Label: "Shopping", Icon: "🛍️", Type: TypeExpense, IsDefault: true},
		{Value: "other_expense", Label: "Other", Icon: "💸", Type: TypeExpense, IsDefault: true},
		{Value: "salary", Label: "Salary", Icon: "💼", Type: TypeIncome, IsDefault: true},
		{Value: "freelance", Label: "Freelance", Icon: "🧑‍💻", Type: TypeIncome, IsDefault: true},
		{Value: "investment", Label: "Investment", Icon: "📈", Type: TypeIncome, IsDefault: true},
		{Value: "gift", Label: "Gift", Icon: "🎁", Type: TypeIncome, IsDefault: true},
		{Value: "other_income", Label: "Other", Icon: "💰", Type: TypeIncome, IsDefault: true},
	}
}
