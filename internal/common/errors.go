// Package common provides shared error types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Consistency-rule refusals.
	ErrDefaultCategory     = errors.New("default categories cannot be deleted or merged away")
	ErrCategoryInUse       = errors.New("category is referenced by existing transactions")
	ErrSameCategory        = errors.New("source and destination categories are the same")
	ErrCategoryTypeChange  = errors.New("category type cannot be changed after creation")
	ErrTypeMismatch        = errors.New("categories have different types")
	ErrNotExpenseCategory  = errors.New("budgets can only be set on expense categories")
	ErrInvalidBudgetAmount = errors.New("budget amount must be positive")

	// Serialization errors.
	ErrInvalidBackup   = errors.New("invalid backup format")
	ErrNothingToExport = errors.New("no transactions to export")
)

// UserError represents an error whose message should be shown to the
// user verbatim.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
