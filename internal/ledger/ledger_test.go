package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finflow/finflow/internal/common"
	"github.com/finflow/finflow/internal/model"
	"github.com/finflow/finflow/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	store, err := Open(context.Background(), backend)
	require.NoError(t, err)
	return store, backend
}

func expenseTx(category, description string, amount float64) model.Transaction {
	return model.Transaction{
		Type:        model.TypeExpense,
		Category:    category,
		Amount:      amount,
		Date:        model.NewDate(2024, time.June, 15),
		Description: description,
	}
}

func TestOpenSeedsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.Transactions())
	assert.Equal(t, model.DefaultCategories(), store.Categories())
	assert.Empty(t, store.Budgets())
	assert.Equal(t, model.DefaultCurrency, store.Currency())
	assert.False(t, store.Period().IsZero())
}

func TestOpenLoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	tx, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 12.5))
	require.NoError(t, err)
	require.NoError(t, store.SetCurrency(ctx, model.CurrencyEUR))
	require.NoError(t, store.SetBudget(ctx, "food", 200))

	reloaded, err := Open(ctx, backend)
	require.NoError(t, err)
	require.Len(t, reloaded.Transactions(), 1)
	assert.Equal(t, tx, reloaded.Transactions()[0])
	assert.Equal(t, model.CurrencyEUR, reloaded.Currency())
	assert.Equal(t, model.Budgets{"food": 200}, reloaded.Budgets())
}

func TestOpenToleratesCorruptRecord(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, storage.KeyTransactions, []byte("{not json")))

	store, err := Open(ctx, backend)
	require.NoError(t, err)
	assert.Empty(t, store.Transactions())
}

func TestAddTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	input := expenseTx("food", "Groceries", 54.2)
	tx, err := store.AddTransaction(ctx, input)
	require.NoError(t, err)

	require.Len(t, store.Transactions(), 1)
	got := store.Transactions()[0]
	assert.NotZero(t, got.ID)
	assert.Equal(t, input.Type, got.Type)
	assert.Equal(t, input.Category, got.Category)
	assert.Equal(t, input.Amount, got.Amount)
	assert.Equal(t, input.Date, got.Date)
	assert.Equal(t, input.Description, got.Description)
	assert.Equal(t, tx, got)
}

func TestAddTransactionIDsNeverCollide(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// Bulk-add within the same clock tick.
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		tx, err := store.AddTransaction(ctx, expenseTx("food", "Coffee", 3))
		require.NoError(t, err)
		assert.False(t, seen[tx.ID], "duplicate id %d", tx.ID)
		seen[tx.ID] = true
	}
}

func TestAddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", -1))
	assert.Error(t, err)

	_, err = store.AddTransaction(ctx, expenseTx("no_such_category", "Lunch", 10))
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Empty(t, store.Transactions())
}

func TestEditTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	tx, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 10))
	require.NoError(t, err)

	tx.Amount = 15
	tx.Description = "Long lunch"
	require.NoError(t, store.EditTransaction(ctx, tx))

	got, ok := store.Transaction(tx.ID)
	require.True(t, ok)
	assert.Equal(t, 15.0, got.Amount)
	assert.Equal(t, "Long lunch", got.Description)

	// Unknown id is a silent no-op.
	ghost := tx
	ghost.ID = tx.ID + 999
	require.NoError(t, store.EditTransaction(ctx, ghost))
	assert.Len(t, store.Transactions(), 1)
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	tx, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 10))
	require.NoError(t, err)

	store.DeleteTransaction(ctx, tx.ID)
	assert.Empty(t, store.Transactions())

	// Absent id is a no-op.
	store.DeleteTransaction(ctx, tx.ID)
	assert.Empty(t, store.Transactions())
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	cat, err := store.AddCategory(ctx, "Subscriptions", model.TypeExpense, "📺")
	require.NoError(t, err)
	assert.Contains(t, cat.Value, "custom-")
	assert.False(t, cat.IsDefault)

	other, err := store.AddCategory(ctx, "Subscriptions", model.TypeExpense, "📺")
	require.NoError(t, err)
	assert.NotEqual(t, cat.Value, other.Value, "keys must be unique even for equal labels")

	_, err = store.AddCategory(ctx, "", model.TypeExpense, "📺")
	assert.Error(t, err)
}

func TestEditCategory(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	cat, ok := store.Category("food")
	require.True(t, ok)

	cat.Label = "Eating out"
	cat.Icon = "🍜"
	require.NoError(t, store.EditCategory(ctx, cat))

	got, _ := store.Category("food")
	assert.Equal(t, "Eating out", got.Label)
	assert.Equal(t, "🍜", got.Icon)
	assert.True(t, got.IsDefault, "editing must not clear the default flag")

	// The type is immutable.
	cat.Type = model.TypeIncome
	assert.ErrorIs(t, store.EditCategory(ctx, cat), common.ErrCategoryTypeChange)

	cat.Type = model.TypeExpense
	cat.Value = "no_such"
	assert.ErrorIs(t, store.EditCategory(ctx, cat), common.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// Defaults are protected.
	assert.ErrorIs(t, store.DeleteCategory(ctx, "food"), common.ErrDefaultCategory)

	cat, err := store.AddCategory(ctx, "Subscriptions", model.TypeExpense, "📺")
	require.NoError(t, err)
	require.NoError(t, store.SetBudget(ctx, cat.Value, 50))

	// In-use categories are protected.
	tx, err := store.AddTransaction(ctx, expenseTx(cat.Value, "Streaming", 9.99))
	require.NoError(t, err)
	assert.ErrorIs(t, store.DeleteCategory(ctx, cat.Value), common.ErrCategoryInUse)
	_, ok := store.Category(cat.Value)
	assert.True(t, ok, "refused delete must not remove the category")

	// Free of references, delete succeeds and cascades to the budget.
	store.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, store.DeleteCategory(ctx, cat.Value))
	_, ok = store.Category(cat.Value)
	assert.False(t, ok)
	_, ok = store.Budgets()[cat.Value]
	assert.False(t, ok, "budget entry must cascade")

	assert.ErrorIs(t, store.DeleteCategory(ctx, "no_such"), common.ErrNotFound)
}

func TestMergeCategories(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	from, err := store.AddCategory(ctx, "Takeaway", model.TypeExpense, "🥡")
	require.NoError(t, err)

	_, err = store.AddTransaction(ctx, expenseTx(from.Value, "Pizza", 20))
	require.NoError(t, err)
	_, err = store.AddTransaction(ctx, expenseTx(from.Value, "Sushi", 35))
	require.NoError(t, err)
	_, err = store.AddTransaction(ctx, expenseTx("food", "Groceries", 60))
	require.NoError(t, err)

	require.NoError(t, store.SetBudget(ctx, from.Value, 100))
	require.NoError(t, store.SetBudget(ctx, "food", 400))

	require.NoError(t, store.MergeCategories(ctx, from.Value, "food"))

	for _, tx := range store.Transactions() {
		assert.NotEqual(t, from.Value, tx.Category, "no transaction may still reference the source")
	}
	moved := 0
	for _, tx := range store.Transactions() {
		if tx.Category == "food" {
			moved++
		}
	}
	assert.Equal(t, 3, moved)

	_, ok := store.Category(from.Value)
	assert.False(t, ok, "source category must be gone")
	_, ok = store.Budgets()[from.Value]
	assert.False(t, ok, "source budget must be gone")
	assert.Equal(t, 400.0, store.Budgets()["food"], "destination budget must be numerically unchanged")
}

func TestMergeCategoriesRefusals(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	custom, err := store.AddCategory(ctx, "Side gigs", model.TypeIncome, "🛠️")
	require.NoError(t, err)

	assert.ErrorIs(t, store.MergeCategories(ctx, "food", "food"), common.ErrSameCategory)
	assert.ErrorIs(t, store.MergeCategories(ctx, "food", "transport"), common.ErrDefaultCategory)
	assert.ErrorIs(t, store.MergeCategories(ctx, custom.Value, "food"), common.ErrTypeMismatch)
	assert.ErrorIs(t, store.MergeCategories(ctx, "no_such", "food"), common.ErrNotFound)
	assert.ErrorIs(t, store.MergeCategories(ctx, custom.Value, "no_such"), common.ErrNotFound)
}

func TestSetBudget(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.SetBudget(ctx, "food", 300))
	assert.Equal(t, 300.0, store.Budgets()["food"])

	// Upsert.
	require.NoError(t, store.SetBudget(ctx, "food", 350))
	assert.Equal(t, 350.0, store.Budgets()["food"])

	assert.ErrorIs(t, store.SetBudget(ctx, "salary", 300), common.ErrNotExpenseCategory)
	assert.ErrorIs(t, store.SetBudget(ctx, "food", 0), common.ErrInvalidBudgetAmount)
	assert.ErrorIs(t, store.SetBudget(ctx, "food", -10), common.ErrInvalidBudgetAmount)
	assert.ErrorIs(t, store.SetBudget(ctx, "no_such", 100), common.ErrNotFound)
}

func TestRemoveBudget(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.SetBudget(ctx, "food", 300))
	store.RemoveBudget(ctx, "food")
	assert.Empty(t, store.Budgets())

	// Absent entry is a no-op.
	store.RemoveBudget(ctx, "food")
	assert.Empty(t, store.Budgets())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	b := model.Backup{
		Transactions: []model.Transaction{
			{ID: 7, Type: model.TypeIncome, Category: "salary", Amount: 1000,
				Date: model.NewDate(2024, time.May, 1), Description: "Paycheck"},
		},
		Categories: model.DefaultCategories(),
		Budgets:    model.Budgets{"food": 250},
		Currency:   model.CurrencyUSD,
	}
	require.NoError(t, store.Restore(ctx, b))

	assert.Equal(t, b.Transactions, store.Transactions())
	assert.Equal(t, b.Budgets, store.Budgets())
	assert.Equal(t, model.CurrencyUSD, store.Currency())
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 10))
	require.NoError(t, err)
	before := store.Snapshot()

	invalid := []model.Backup{
		{Categories: []model.Category{}, Budgets: model.Budgets{}, Currency: model.CurrencyUSD},   // nil transactions
		{Transactions: []model.Transaction{}, Budgets: model.Budgets{}, Currency: model.CurrencyUSD}, // nil categories
		{Transactions: []model.Transaction{}, Categories: []model.Category{}, Currency: model.CurrencyUSD}, // nil budgets
		{Transactions: []model.Transaction{}, Categories: []model.Category{}, Budgets: model.Budgets{}, Currency: "BTC"},
	}
	for _, b := range invalid {
		assert.ErrorIs(t, store.Restore(ctx, b), common.ErrInvalidBackup)
		assert.Equal(t, before, store.Snapshot(), "failed restore must not mutate state")
	}
}

func TestResetKeepsCurrency(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 10))
	require.NoError(t, err)
	require.NoError(t, store.SetBudget(ctx, "food", 300))
	require.NoError(t, store.SetCurrency(ctx, model.CurrencyAED))

	store.Reset(ctx)

	assert.Empty(t, store.Transactions())
	assert.Equal(t, model.DefaultCategories(), store.Categories())
	assert.Empty(t, store.Budgets())
	assert.Equal(t, model.CurrencyAED, store.Currency())
}

// failingBackend accepts reads but fails every write.
type failingBackend struct {
	*storage.MemoryBackend
}

func (f *failingBackend) Put(_ context.Context, _ string, _ []byte) error {
	return errors.New("disk full")
}

func TestMutationsSurvivePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{storage.NewMemoryBackend()}
	store, err := Open(ctx, backend)
	require.NoError(t, err)

	tx, err := store.AddTransaction(ctx, expenseTx("food", "Lunch", 10))
	require.NoError(t, err, "a storage write failure must not fail the mutation")
	assert.Len(t, store.Transactions(), 1)

	require.NoError(t, store.SetBudget(ctx, "food", 100))
	assert.Equal(t, 100.0, store.Budgets()["food"])

	store.DeleteTransaction(ctx, tx.ID)
	assert.Empty(t, store.Transactions())
}
