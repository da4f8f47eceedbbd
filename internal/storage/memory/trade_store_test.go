package memory

import (
	"context"
	"testing"

	"trade-journal/internal/trade"
)

func TestInsertListCount(t *testing.T) {
	ctx := context.Background()
	s := NewTradeStore()

	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("Expected empty store, got %d", n)
	}

	batch := []trade.Trade{
		{Date: "2024-03-15", Pair: "EURUSD", ProfitLoss: 50},
		{Date: "2024-03-14", Pair: "XAUUSD", ProfitLoss: -20},
	}
	if err := s.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 trades, got %d", n)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].Pair != "EURUSD" || got[1].Pair != "XAUUSD" {
		t.Errorf("Unexpected list contents: %+v", got)
	}

	// List hands out a copy.
	got[0].Pair = "MUTATED"
	again, _ := s.List(ctx)
	if again[0].Pair != "EURUSD" {
		t.Error("List exposed internal state")
	}
}
