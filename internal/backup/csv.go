package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/finflow/finflow/internal/common"
	"github.com/finflow/finflow/internal/model"
)

// csvHeader is the fixed column order of transaction exports.
var csvHeader = []string{"ID", "Date", "Type", "Description", "Category", "Amount"}

// WriteCSV exports one row per transaction with RFC-4180 quoting. The
// category column carries the resolved display label, falling back to
// the raw key for a dangling reference. An empty set is refused so the
// caller can tell the user there is nothing to export.
func WriteCSV(w io.Writer, txs []model.Transaction, cats []model.Category) error {
	if len(txs) == 0 {
		return common.ErrNothingToExport
	}

	display := make(map[string]string, len(cats))
	for _, c := range cats {
		display[c.Value] = c.Display()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range txs {
		category, ok := display[t.Category]
		if !ok {
			category = t.Category
		}
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date.String(),
			string(t.Type),
			t.Description,
			category,
			model.FormatAmount(t.Amount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
