package report

import (
	"context"
	"errors"
	"testing"
)

// Plain layout: direct "Positions" header, no layout marker, trailing
// numeric block read by fixed offsets.
const plainReportHTML = `
<html><body>
<table>
<tr><th colspan="13">Positions</th></tr>
<tr><td>Time</td><td>Position</td><td>Symbol</td><td>Type</td><td>Volume</td><td>Price</td><td>S / L</td><td>T / P</td><td>Time</td><td>Price</td><td>Commission</td><td>Swap</td><td>Profit</td></tr>
<tr><td>2024.03.15 10:30:00</td><td>12345</td><td>EURUSD</td><td>buy</td><td>0.50</td><td>1.08500</td><td>1.08000</td><td>1.09500</td><td>2024.03.15 14:45:00</td><td>1.09200</td><td>-3.50</td><td>-0.12</td><td>350.00</td></tr>
<tr><td>2024.03.15 16:00:00</td><td>12346</td><td>XAUUSD</td><td>sell</td><td>0.10</td><td>2180.50</td><td>2185.00</td><td>2170.00</td><td>2024.03.15 18:20:00</td><td>2175.25</td><td>-1.20</td><td>0.00</td><td>52.50</td></tr>
<tr><th colspan="13">Orders</th></tr>
<tr><td>2024.03.14 09:00:00</td><td>99999</td><td>USDJPY</td><td>buy</td><td>1.00</td><td>150.000</td><td>149.500</td><td>151.000</td><td>2024.03.14 12:00:00</td><td>150.700</td><td>-5.00</td><td>0.00</td><td>466.00</td></tr>
<tr><th colspan="13">Results</th></tr>
<tr><td>Total Net Profit:</td><td><b>402.50</b></td></tr>
<tr><td>Gross Profit:</td><td><b>402.50</b></td></tr>
<tr><td>Gross Loss:</td><td><b>0.00</b></td></tr>
<tr><td>Profit Factor:</td><td><b>9999.00</b></td></tr>
<tr><td>Total Trades:</td><td><b>2</b></td></tr>
<tr><td>Profit Trades (% of total):</td><td>2 (100.00%)</td></tr>
<tr><td>Balance:</td><td><b>10 402.50</b></td></tr>
<tr><td>Credit Facility:</td><td>0.00</td></tr>
</table>
</body></html>`

// Marker layout: the section header shares its row text with "Deals", so
// only the nested-markup strategy accepts it, and a hidden colspan cell
// separates the leading columns from the numeric block.
const markerReportHTML = `
<html><body>
<table>
<tr><th colspan="14"><b>Positions</b> and Deals overview</th></tr>
<tr><td>Time</td><td>Symbol</td><td>Type</td><td></td><td>Volume</td><td>Price</td><td>S / L</td><td>T / P</td><td>Time</td><td>Price</td><td>Commission</td><td>Swap</td><td>Profit</td></tr>
<tr><td>2024.03.16 09:15:00</td><td>GBPUSD</td><td>sell</td><td class="hidden" colspan="8"></td><td>1.00</td><td>1.26500</td><td>1.27000</td><td>1.25500</td><td>2024.03.16 11:40:00</td><td>1.25800</td><td>-7.00</td><td>0.00</td><td>700.00</td></tr>
<tr><th colspan="14">Deals</th></tr>
</table>
</body></html>`

func TestParsePlainLayout(t *testing.T) {
	rep, err := Parse(context.Background(), plainReportHTML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(rep.Positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(rep.Positions))
	}
	if rep.SkippedRows != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", rep.SkippedRows)
	}

	p := rep.Positions[0]
	if p.Symbol != "EURUSD" {
		t.Errorf("Expected symbol EURUSD, got %s", p.Symbol)
	}
	if p.Direction != "buy" {
		t.Errorf("Expected direction buy, got %s", p.Direction)
	}
	if p.OpenTime != "2024.03.15 10:30:00" {
		t.Errorf("Unexpected open time: %s", p.OpenTime)
	}
	if p.Volume != 0.5 {
		t.Errorf("Expected volume 0.5, got %f", p.Volume)
	}
	if p.Entry != 1.085 {
		t.Errorf("Expected entry 1.085, got %f", p.Entry)
	}
	if p.StopLoss != 1.08 || p.TakeProfit != 1.095 {
		t.Errorf("Unexpected SL/TP: %f / %f", p.StopLoss, p.TakeProfit)
	}
	if p.CloseTime != "2024.03.15 14:45:00" {
		t.Errorf("Unexpected close time: %s", p.CloseTime)
	}
	if p.ClosePrice != 1.092 {
		t.Errorf("Expected close price 1.092, got %f", p.ClosePrice)
	}
	if p.Commission != -3.5 || p.Swap != -0.12 {
		t.Errorf("Unexpected commission/swap: %f / %f", p.Commission, p.Swap)
	}
	if p.Profit != 350 {
		t.Errorf("Expected profit 350, got %f", p.Profit)
	}

	// The Orders section row after the break must not leak in.
	for _, pos := range rep.Positions {
		if pos.Symbol == "USDJPY" {
			t.Error("Order row was parsed as a position")
		}
	}
}

func TestParseMarkerLayout(t *testing.T) {
	rep, err := Parse(context.Background(), markerReportHTML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(rep.Positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(rep.Positions))
	}

	p := rep.Positions[0]
	if p.Symbol != "GBPUSD" {
		t.Errorf("Expected symbol GBPUSD, got %s", p.Symbol)
	}
	if p.Direction != "sell" {
		t.Errorf("Expected direction sell, got %s", p.Direction)
	}
	if p.Volume != 1.0 {
		t.Errorf("Expected volume 1.0, got %f", p.Volume)
	}
	if p.Entry != 1.265 {
		t.Errorf("Expected entry 1.265, got %f", p.Entry)
	}
	if p.StopLoss != 1.27 || p.TakeProfit != 1.255 {
		t.Errorf("Unexpected SL/TP: %f / %f", p.StopLoss, p.TakeProfit)
	}
	if p.CloseTime != "2024.03.16 11:40:00" {
		t.Errorf("Unexpected close time: %s", p.CloseTime)
	}
	if p.ClosePrice != 1.258 {
		t.Errorf("Expected close price 1.258, got %f", p.ClosePrice)
	}
	if p.Commission != -7.0 || p.Swap != 0 {
		t.Errorf("Unexpected commission/swap: %f / %f", p.Commission, p.Swap)
	}
	if p.Profit != 700 {
		t.Errorf("Expected profit 700, got %f", p.Profit)
	}
}

func TestParseLayoutEquivalence(t *testing.T) {
	// The same GBPUSD trade as markerReportHTML, rendered with a direct
	// section header and the positional column layout. Whichever path
	// located the section and whichever layout carried the row, the
	// extracted fields must be identical.
	positional := `
<table>
<tr><th colspan="13">Positions</th></tr>
<tr><td>Time</td><td>Position</td><td>Symbol</td><td>Type</td><td>Volume</td><td>Price</td><td>S / L</td><td>T / P</td><td>Time</td><td>Price</td><td>Commission</td><td>Swap</td><td>Profit</td></tr>
<tr><td>2024.03.16 09:15:00</td><td>42</td><td>GBPUSD</td><td>sell</td><td>1.00</td><td>1.26500</td><td>1.27000</td><td>1.25500</td><td>2024.03.16 11:40:00</td><td>1.25800</td><td>-7.00</td><td>0.00</td><td>700.00</td></tr>
<tr><th colspan="13">Orders</th></tr>
</table>`

	fromPositional, err := Parse(context.Background(), positional)
	if err != nil {
		t.Fatalf("Parse positional layout failed: %v", err)
	}
	fromMarker, err := Parse(context.Background(), markerReportHTML)
	if err != nil {
		t.Fatalf("Parse marker layout failed: %v", err)
	}

	if len(fromPositional.Positions) != 1 || len(fromMarker.Positions) != 1 {
		t.Fatalf("Expected 1 position from each layout, got %d and %d",
			len(fromPositional.Positions), len(fromMarker.Positions))
	}
	if fromPositional.Positions[0] != fromMarker.Positions[0] {
		t.Errorf("Layouts disagree:\npositional: %+v\nmarker:     %+v",
			fromPositional.Positions[0], fromMarker.Positions[0])
	}
}

func TestParseSkipsUnresolvableRows(t *testing.T) {
	// Middle row has a numeric symbol cell and a zero entry price, so both
	// symbol resolution paths reject it. The remaining rows still parse.
	html := `
<table>
<tr><th colspan="13">Positions</th></tr>
<tr><td>Time</td><td>Position</td><td>Symbol</td><td>Type</td><td>Volume</td><td>Price</td><td>S / L</td><td>T / P</td><td>Time</td><td>Price</td><td>Commission</td><td>Swap</td><td>Profit</td></tr>
<tr><td>2024.03.15 10:30:00</td><td>1</td><td>EURUSD</td><td>buy</td><td>0.50</td><td>1.08500</td><td>0</td><td>0</td><td>2024.03.15 14:45:00</td><td>1.09200</td><td>-3.50</td><td>0.00</td><td>350.00</td></tr>
<tr><td>2024.03.15 11:00:00</td><td>2</td><td>12345</td><td>buy</td><td>0.50</td><td>1.08500</td><td>0</td><td>0</td><td>2024.03.15 14:45:00</td><td>1.09200</td><td>-3.50</td><td>0.00</td><td>10.00</td></tr>
<tr><td>2024.03.15 12:00:00</td><td>3</td><td>USDJPY</td><td>sell</td><td>0.20</td><td>150.200</td><td>0</td><td>0</td><td>2024.03.15 15:00:00</td><td>149.800</td><td>-1.00</td><td>0.00</td><td>53.00</td></tr>
<tr><td>2024.03.15 13:00:00</td><td>4</td><td>XAUUSD</td><td>buy</td><td>0.10</td><td>2180.50</td><td>0</td><td>0</td><td>2024.03.15 16:00:00</td><td>2182.00</td><td>-1.20</td><td>0.00</td><td>15.00</td></tr>
<tr><td>2024.03.15 14:00:00</td><td>5</td><td>AUDUSD</td><td>sell</td><td>0.30</td><td>0.65500</td><td>0</td><td>0</td><td>2024.03.15 17:00:00</td><td>0.65400</td><td>-0.90</td><td>0.00</td><td>30.00</td></tr>
<tr><th colspan="13">Orders</th></tr>
</table>`

	rep, err := Parse(context.Background(), html)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rep.Positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(rep.Positions))
	}
	if rep.SkippedRows != 1 {
		t.Errorf("Expected 1 skipped row, got %d", rep.SkippedRows)
	}
}

func TestParseMissingPositionsSection(t *testing.T) {
	html := `<table><tr><th>Account statement</th></tr><tr><td>Nothing here</td></tr></table>`
	_, err := Parse(context.Background(), html)
	if !errors.Is(err, ErrPositionsTableNotFound) {
		t.Fatalf("Expected ErrPositionsTableNotFound, got %v", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	_, err := Parse(context.Background(), "   ")
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("Expected ErrMalformedDocument, got %v", err)
	}
}

func TestExtractBalanceAndSummary(t *testing.T) {
	rep, err := Parse(context.Background(), plainReportHTML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rep.Balance != 10402.50 {
		t.Errorf("Expected balance 10402.50, got %f", rep.Balance)
	}
	s := rep.Summary
	if s.TotalNetProfit != 402.50 {
		t.Errorf("Expected total net profit 402.50, got %f", s.TotalNetProfit)
	}
	if s.GrossProfit != 402.50 {
		t.Errorf("Expected gross profit 402.50, got %f", s.GrossProfit)
	}
	if s.GrossLoss != 0 {
		t.Errorf("Expected gross loss 0, got %f", s.GrossLoss)
	}
	if s.ProfitFactor != 9999 {
		t.Errorf("Expected profit factor 9999, got %f", s.ProfitFactor)
	}
	if s.TotalTrades != 2 {
		t.Errorf("Expected 2 total trades, got %d", s.TotalTrades)
	}
	if s.WinRatePct != 100 {
		t.Errorf("Expected win rate 100, got %f", s.WinRatePct)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1 234.56", 1234.56},
		{"-3.50", -3.5},
		{"0.00", 0},
		{"", 0},
		{"-", 0},
		{"n/a", 0},
		{"$700.00", 700},
	}
	for _, c := range cases {
		if got := parseNumber(c.in); got != c.want {
			t.Errorf("parseNumber(%q) = %f, want %f", c.in, got, c.want)
		}
	}
}
