// Package backup serializes the complete user-data snapshot to JSON and
// transaction sets to CSV, and validates imported documents before any
// domain value is constructed from them.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/finflow/finflow/internal/common"
	"github.com/finflow/finflow/internal/model"
)

// Encode serializes a snapshot to the interchange document: the four
// persisted records under their stable names, two-space indented.
func Encode(b model.Backup) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// rawBackup defers field decoding so container shapes can be checked
// before any typed value is built.
type rawBackup struct {
	Transactions json.RawMessage `json:"transactions"`
	Categories   json.RawMessage `json:"categories"`
	Budgets      json.RawMessage `json:"budgets"`
	Currency     json.RawMessage `json:"currency"`
}

// Decode parses and validates a backup document. On any structural
// problem it returns common.ErrInvalidBackup (wrapped with detail) and
// no partial result.
func Decode(data []byte) (model.Backup, error) {
	var raw rawBackup
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Backup{}, fmt.Errorf("%w: %v", common.ErrInvalidBackup, err)
	}

	if err := expectContainer(raw.Transactions, '[', "transactions"); err != nil {
		return model.Backup{}, err
	}
	if err := expectContainer(raw.Categories, '[', "categories"); err != nil {
		return model.Backup{}, err
	}
	if err := expectContainer(raw.Budgets, '{', "budgets"); err != nil {
		return model.Backup{}, err
	}

	var b model.Backup
	if err := json.Unmarshal(raw.Transactions, &b.Transactions); err != nil {
		return model.Backup{}, fmt.Errorf("%w: bad transactions: %v", common.ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(raw.Categories, &b.Categories); err != nil {
		return model.Backup{}, fmt.Errorf("%w: bad categories: %v", common.ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(raw.Budgets, &b.Budgets); err != nil {
		return model.Backup{}, fmt.Errorf("%w: budgets must map category keys to numbers: %v", common.ErrInvalidBackup, err)
	}
	if err := json.Unmarshal(raw.Currency, &b.Currency); err != nil {
		return model.Backup{}, fmt.Errorf("%w: currency must be a string: %v", common.ErrInvalidBackup, err)
	}
	if !b.Currency.Valid() {
		return model.Backup{}, fmt.Errorf("%w: unrecognized currency %q", common.ErrInvalidBackup, b.Currency)
	}
	return b, nil
}

// expectContainer checks that a field is present and opens with the
// expected container byte.
func expectContainer(raw json.RawMessage, open byte, field string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: missing %s", common.ErrInvalidBackup, field)
	}
	if trimmed[0] != open {
		return fmt.Errorf("%w: %s has the wrong shape", common.ErrInvalidBackup, field)
	}
	return nil
}
