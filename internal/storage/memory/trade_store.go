// Package memory provides an in-memory TradeStore for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"trade-journal/internal/storage"
	"trade-journal/internal/trade"
)

// TradeStore implements storage.TradeStore in memory.
type TradeStore struct {
	mu     sync.RWMutex
	trades []trade.Trade
}

// NewTradeStore creates an empty in-memory store.
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBatch appends trades to the store.
func (s *TradeStore) InsertBatch(_ context.Context, trades []trade.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trades...)
	return nil
}

// List returns a copy of all stored trades in insertion order.
func (s *TradeStore) List(_ context.Context) ([]trade.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trade.Trade, len(s.trades))
	copy(out, s.trades)
	return out, nil
}

// Count returns the number of stored trades.
func (s *TradeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trades), nil
}
