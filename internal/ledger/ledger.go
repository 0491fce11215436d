// Package ledger owns the domain state: transactions, categories,
// budgets, and the currency setting. Every mutation recomputes the
// affected collection in full and writes it back through the storage
// backend, keeping the three collections mutually consistent.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finflow/finflow/internal/common"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/storage"
)

// Store holds the in-memory authoritative state and persists it through
// an injected backend. It is written for a single logical writer; a
// persistence failure is logged and swallowed, the in-memory transition
// always completes.
type Store struct {
	backend storage.Backend

	transactions []model.Transaction
	categories   []model.Category
	budgets      model.Budgets
	currency     model.Currency
	period       model.Period
}

// Open loads state from the backend, seeding defaults for any record
// that is absent. A corrupt record is logged and replaced with its
// default rather than aborting, so a damaged store never locks the
// user out.
func Open(ctx context.Context, backend storage.Backend) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}

	s := &Store{
		backend:      backend,
		transactions: []model.Transaction{},
		categories:   model.DefaultCategories(),
		budgets:      model.Budgets{},
		currency:     model.DefaultCurrency,
		period:       model.CurrentPeriod(time.Now()),
	}

	if err := loadRecord(ctx, backend, storage.KeyTransactions, &s.transactions); err != nil {
		return nil, err
	}
	if err := loadRecord(ctx, backend, storage.KeyCategories, &s.categories); err != nil {
		return nil, err
	}
	if err := loadRecord(ctx, backend, storage.KeyBudgets, &s.budgets); err != nil {
		return nil, err
	}

	var cur model.Currency
	if err := loadRecord(ctx, backend, storage.KeyCurrency, &cur); err != nil {
		return nil, err
	}
	if cur.Valid() {
		s.currency = cur
	}

	slog.Debug("ledger loaded",
		"transactions", len(s.transactions),
		"categories", len(s.categories),
		"budgets", len(s.budgets),
		"currency", s.currency)

	return s, nil
}

// loadRecord reads one persisted record into dst, leaving dst untouched
// when the key is absent. Corrupt JSON falls back to the default with a
// warning instead of failing the load.
func loadRecord(ctx context.Context, backend storage.Backend, key string, dst any) error {
	data, err := backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("discarding corrupt record, using default",
			"key", key, "error", err)
	}
	return nil
}

// persist writes one record. A write failure must not crash the state
// transition already applied in memory, so it is logged and swallowed;
// the in-memory state stays authoritative for the session.
func (s *Store) persist(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to encode record", "key", key, "error", err)
		return
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		slog.Warn("failed to persist record", "key", key, "error", err)
	}
}

// Transactions returns a copy of all transactions.
func (s *Store) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Categories returns a copy of all categories.
func (s *Store) Categories() []model.Category {
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Budgets returns a copy of the budget map.
func (s *Store) Budgets() model.Budgets {
	return s.budgets.Clone()
}

// Currency returns the active display currency.
func (s *Store) Currency() model.Currency {
	return s.currency
}

// Period returns the selected (year, month) scope.
func (s *Store) Period() model.Period {
	return s.period
}

// SetPeriod changes the selected period. It is session state and is not
// persisted.
func (s *Store) SetPeriod(p model.Period) {
	s.period = p
}

// SetCurrency changes and persists the display currency.
func (s *Store) SetCurrency(ctx context.Context, c model.Currency) error {
	if !c.Valid() {
		return fmt.Errorf("unsupported currency %q", c)
	}
	s.currency = c
	s.persist(ctx, storage.KeyCurrency, s.currency)
	return nil
}

// Category looks up a category by its stable key.
func (s *Store) Category(value string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.Value == value {
			return c, true
		}
	}
	return model.Category{}, false
}

// nextTransactionID returns a fresh id. Ids stay roughly chronological
// (floored at the current Unix-milli clock) but can never collide, even
// for bulk adds within one clock tick.
func (s *Store) nextTransactionID() int64 {
	id := time.Now().UnixMilli()
	for _, t := range s.transactions {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// AddTransaction validates data, assigns a fresh id, appends, and
// persists. The stored transaction is returned.
func (s *Store) AddTransaction(ctx context.Context, data model.Transaction) (model.Transaction, error) {
	if err := data.Validate(); err != nil {
		return model.Transaction{}, err
	}
	if _, ok := s.Category(data.Category); !ok {
		return model.Transaction{}, fmt.Errorf("category %q: %w", data.Category, common.ErrNotFound)
	}

	data.ID = s.nextTransactionID()
	s.transactions = append(s.transactions, data)
	s.persist(ctx, storage.KeyTransactions, s.transactions)

	slog.Info("added transaction", "id", data.ID, "type", data.Type, "amount", data.Amount)
	return data, nil
}

// EditTransaction replaces the entry with a matching id. An unknown id
// is a no-op.
func (s *Store) EditTransaction(ctx context.Context, tx model.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, ok := s.Category(tx.Category); !ok {
		return fmt.Errorf("category %q: %w", tx.Category, common.ErrNotFound)
	}

	for i := range s.transactions {
		if s.transactions[i].ID == tx.ID {
			s.transactions[i] = tx
			s.persist(ctx, storage.KeyTransactions, s.transactions)
			return nil
		}
	}
	return nil
}

// DeleteTransaction removes the entry with a matching id. An unknown id
// is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.persist(ctx, storage.KeyTransactions, s.transactions)
			return
		}
	}
}

// Transaction looks up a transaction by id.
func (s *Store) Transaction(id int64) (model.Transaction, bool) {
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// AddCategory creates a custom category with a generated unique key.
func (s *Store) AddCategory(ctx context.Context, label string, ctype model.TransactionType, icon string) (model.Category, error) {
	cat := model.Category{
		Value: "custom-" + uuid.NewString(),
		Label: label,
		Type:  ctype,
		Icon:  icon,
	}
	if err := cat.Validate(); err != nil {
		return model.Category{}, err
	}

	s.categories = append(s.categories, cat)
	s.persist(ctx, storage.KeyCategories, s.categories)

	slog.Info("added category", "value", cat.Value, "label", cat.Label, "type", cat.Type)
	return cat, nil
}

// EditCategory relabels or re-icons the category with a matching key.
// The type is immutable after creation: a differing type is rejected so
// the category's budget and transactions keep making sense.
func (s *Store) EditCategory(ctx context.Context, cat model.Category) error {
	if err := cat.Validate(); err != nil {
		return err
	}

	for i := range s.categories {
		if s.categories[i].Value != cat.Value {
			continue
		}
		if s.categories[i].Type != cat.Type {
			return common.ErrCategoryTypeChange
		}
		// IsDefault is controlled by the seed, not the caller.
		cat.IsDefault = s.categories[i].IsDefault
		s.categories[i] = cat
		s.persist(ctx, storage.KeyCategories, s.categories)
		return nil
	}
	return fmt.Errorf("category %q: %w", cat.Value, common.ErrNotFound)
}

// DeleteCategory removes a custom, unreferenced category and cascades
// removal of its budget entry. Default and in-use categories are
// refused.
func (s *Store) DeleteCategory(ctx context.Context, value string) error {
	cat, ok := s.Category(value)
	if !ok {
		return fmt.Errorf("category %q: %w", value, common.ErrNotFound)
	}
	if cat.IsDefault {
		return common.ErrDefaultCategory
	}
	for _, t := range s.transactions {
		if t.Category == value {
			return common.ErrCategoryInUse
		}
	}

	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.Value != value {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	s.persist(ctx, storage.KeyCategories, s.categories)

	if _, ok := s.budgets[value]; ok {
		delete(s.budgets, value)
		s.persist(ctx, storage.KeyBudgets, s.budgets)
	}

	slog.Info("deleted category", "value", value)
	return nil
}

// MergeCategories reassigns every transaction under from to to, removes
// the from category and its budget entry, and leaves to's own budget
// untouched. Both categories must exist and share a type, and from must
// not be a default category.
func (s *Store) MergeCategories(ctx context.Context, from, to string) error {
	if from == to {
		return common.ErrSameCategory
	}
	fromCat, ok := s.Category(from)
	if !ok {
		return fmt.Errorf("category %q: %w", from, common.ErrNotFound)
	}
	toCat, ok := s.Category(to)
	if !ok {
		return fmt.Errorf("category %q: %w", to, common.ErrNotFound)
	}
	if fromCat.IsDefault {
		return common.ErrDefaultCategory
	}
	if fromCat.Type != toCat.Type {
		return common.ErrTypeMismatch
	}

	moved := 0
	for i := range s.transactions {
		if s.transactions[i].Category == from {
			s.transactions[i].Category = to
			moved++
		}
	}
	if moved > 0 {
		s.persist(ctx, storage.KeyTransactions, s.transactions)
	}

	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.Value != from {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	s.persist(ctx, storage.KeyCategories, s.categories)

	if _, ok := s.budgets[from]; ok {
		delete(s.budgets, from)
		s.persist(ctx, storage.KeyBudgets, s.budgets)
	}

	slog.Info("merged categories", "from", from, "to", to, "transactions_moved", moved)
	return nil
}

// SetBudget upserts the monthly budget for an expense category.
func (s *Store) SetBudget(ctx context.Context, value string, amount float64) error {
	cat, ok := s.Category(value)
	if !ok {
		return fmt.Errorf("category %q: %w", value, common.ErrNotFound)
	}
	if cat.Type != model.TypeExpense {
		return common.ErrNotExpenseCategory
	}
	if amount <= 0 {
		return common.ErrInvalidBudgetAmount
	}

	s.budgets[value] = amount
	s.persist(ctx, storage.KeyBudgets, s.budgets)
	return nil
}

// RemoveBudget removes the budget entry for a category. An absent entry
// is a no-op.
func (s *Store) RemoveBudget(ctx context.Context, value string) {
	if _, ok := s.budgets[value]; !ok {
		return
	}
	delete(s.budgets, value)
	s.persist(ctx, storage.KeyBudgets, s.budgets)
}

// Restore atomically replaces all four records with the backup's
// contents. The backup must already be structurally valid; Restore
// re-checks the container invariants and refuses a partial state.
func (s *Store) Restore(ctx context.Context, b model.Backup) error {
	if b.Transactions == nil || b.Categories == nil || b.Budgets == nil {
		return common.ErrInvalidBackup
	}
	if !b.Currency.Valid() {
		return fmt.Errorf("%w: unrecognized currency %q", common.ErrInvalidBackup, b.Currency)
	}

	s.transactions = b.Transactions
	s.categories = b.Categories
	s.budgets = b.Budgets
	s.currency = b.Currency

	s.persist(ctx, storage.KeyTransactions, s.transactions)
	s.persist(ctx, storage.KeyCategories, s.categories)
	s.persist(ctx, storage.KeyBudgets, s.budgets)
	s.persist(ctx, storage.KeyCurrency, s.currency)

	slog.Info("restored backup",
		"transactions", len(s.transactions),
		"categories", len(s.categories),
		"budgets", len(s.budgets))
	return nil
}

// Reset replaces transactions, categories, and budgets with their
// defaults. The currency setting is left untouched.
func (s *Store) Reset(ctx context.Context) {
	s.transactions = []model.Transaction{}
	s.categories = model.DefaultCategories()
	s.budgets = model.Budgets{}

	s.persist(ctx, storage.KeyTransactions, s.transactions)
	s.persist(ctx, storage.KeyCategories, s.categories)
	s.persist(ctx, storage.KeyBudgets, s.budgets)

	slog.Info("reset to defaults")
}

// Snapshot assembles the current state into a backup document.
func (s *Store) Snapshot() model.Backup {
	return model.Backup{
		Transactions: s.Transactions(),
		Categories:   s.Categories(),
		Budgets:      s.Budgets(),
		Currency:     s.currency,
	}
}
