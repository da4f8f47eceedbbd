package postgres

import (
	"context"
	"fmt"

	"trade-journal/internal/session"
	"trade-journal/internal/storage"
	"trade-journal/internal/trade"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool      *Pool
	batchSize int
}

// NewTradeStore creates a TradeStore inserting at most batchSize rows per
// transaction.
func NewTradeStore(pool *Pool, batchSize int) *TradeStore {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &TradeStore{pool: pool, batchSize: batchSize}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeSQL = `
	INSERT INTO trades (
		trade_date, pair, direction, entry_price, stop_loss, take_profit,
		lot_size, profit_loss, commission, swap, rr_ratio, session,
		open_time, close_time, close_price
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12,
		$13, $14, $15
	)
`

// InsertBatch stores trades in chunked transactions. Each chunk commits
// atomically; a failure aborts the current chunk and is returned.
func (s *TradeStore) InsertBatch(ctx context.Context, trades []trade.Trade) error {
	for from := 0; from < len(trades); from += s.batchSize {
		to := from + s.batchSize
		if to > len(trades) {
			to = len(trades)
		}
		if err := s.insertChunk(ctx, trades[from:to]); err != nil {
			return fmt.Errorf("insert trades [%d:%d]: %w", from, to, err)
		}
	}
	return nil
}

func (s *TradeStore) insertChunk(ctx context.Context, trades []trade.Trade) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		_, err := tx.Exec(ctx, insertTradeSQL,
			t.Date, t.Pair, string(t.Direction), t.Entry, t.StopLoss, t.TakeProfit,
			t.LotSize, t.ProfitLoss, t.Commission, t.Swap, t.RRRatio, string(t.Session),
			t.OpenTime, t.CloseTime, t.ClosePrice,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade %s %s: %w", t.Date, t.Pair, err)
		}
	}

	return tx.Commit(ctx)
}

// List returns all stored trades in insertion order.
func (s *TradeStore) List(ctx context.Context) ([]trade.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT trade_date, pair, direction, entry_price, stop_loss, take_profit,
		       lot_size, profit_loss, commission, swap, rr_ratio, session,
		       open_time, close_time, close_price
		FROM trades
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var out []trade.Trade
	for rows.Next() {
		var t trade.Trade
		var direction, sess string
		if err := rows.Scan(
			&t.Date, &t.Pair, &direction, &t.Entry, &t.StopLoss, &t.TakeProfit,
			&t.LotSize, &t.ProfitLoss, &t.Commission, &t.Swap, &t.RRRatio, &sess,
			&t.OpenTime, &t.CloseTime, &t.ClosePrice,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Direction = trade.Direction(direction)
		t.Session = session.Label(sess)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of stored trades.
func (s *TradeStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}
