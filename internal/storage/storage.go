// Package storage provides the durable key-value persistence layer.
// The domain store reads and writes whole JSON-encoded records under
// stable keys; it never issues partial updates.
package storage

import "context"

// Keys under which the four persisted records live.
const (
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
	KeyBudgets      = "budgets"
	KeyCurrency     = "currency"
)

// Backend is the opaque get/set capability the domain store persists
// through. Get returns (nil, nil) when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
