// Package storage defines the persistence boundary for imported trades.
// Implementations live in subpackages; the core pipeline only ever sees
// this interface.
package storage

import (
	"context"
	"errors"

	"trade-journal/internal/trade"
)

// ErrDuplicateKey indicates an insert hit an existing record.
var ErrDuplicateKey = errors.New("storage: duplicate key")

// TradeStore persists normalized trades from report imports.
type TradeStore interface {
	// InsertBatch stores trades in chunked transactions; one parse call's
	// output is one logical batch.
	InsertBatch(ctx context.Context, trades []trade.Trade) error

	// List returns all stored trades in insertion order.
	List(ctx context.Context) ([]trade.Trade, error)

	// Count returns the number of stored trades.
	Count(ctx context.Context) (int, error)
}
