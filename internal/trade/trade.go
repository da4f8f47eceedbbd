// Package trade defines the canonical trade record and the normalization,
// timestamp-resolution and ordering rules everything downstream consumes.
package trade

import (
	"trade-journal/internal/session"
)

// Direction of a position.
type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

// Trade is one normalized, immutable trade record. ProfitLoss is net of
// commission and swap. StopLoss/TakeProfit are nil when the broker report
// carried no level (a literal 0 in the source means "not set", never
// "price zero"). OpenTime/CloseTime keep the broker's original encoding
// verbatim for the timestamp resolver.
type Trade struct {
	Date       string        `json:"date"`
	Pair       string        `json:"pair"`
	Direction  Direction     `json:"direction"`
	Entry      float64       `json:"entry"`
	StopLoss   *float64      `json:"stop_loss,omitempty"`
	TakeProfit *float64      `json:"take_profit,omitempty"`
	LotSize    float64       `json:"lot_size"`
	ProfitLoss float64       `json:"profit_loss"`
	Commission float64       `json:"commission"`
	Swap       float64       `json:"swap"`
	RRRatio    float64       `json:"rr_ratio"`
	Session    session.Label `json:"session"`
	OpenTime   string        `json:"open_time"`
	CloseTime  string        `json:"close_time"`
	ClosePrice float64       `json:"close_price"`
}
