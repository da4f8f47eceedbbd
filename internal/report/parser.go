package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trade-journal/internal/logger"
)

var (
	dateRe      = regexp.MustCompile(`\d{4}[.\-]\d{2}[.\-]\d{2}`)
	timeRe      = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
	dateStartRe = regexp.MustCompile(`^\d{4}[.\-]\d{2}[.\-]\d{2}`)
	timeStartRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`)
	// Instrument symbols: 2-8 alphanumerics with an optional broker suffix
	// like .x, .m or .pro.
	symbolRe     = regexp.MustCompile(`^[A-Za-z0-9]{2,8}(\.[A-Za-z0-9]+)?$`)
	pureNumberRe = regexp.MustCompile(`^\d+$`)
	hasLetterRe  = regexp.MustCompile(`[A-Za-z]`)
)

// cell is one <td> with the attributes the layout heuristics look at.
type cell struct {
	text    string
	class   string
	colspan string
}

// row is one <tr>, materialized once so strategies stay pure functions
// over an immutable slice.
type row struct {
	text   string // full row text, lowercased
	thText string // first <th> text, lowercased; "" when the row has no th
	th     *goquery.Selection
	bold   string // first <b> text in the row, for label/value summary rows
	cells  []cell // <td> cells only
}

func collectRows(doc *goquery.Document) []row {
	var rows []row
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		r := row{text: strings.ToLower(strings.TrimSpace(tr.Text()))}
		th := tr.Find("th").First()
		if th.Length() > 0 {
			r.th = th
			r.thText = strings.ToLower(strings.TrimSpace(th.Text()))
		}
		r.bold = strings.TrimSpace(tr.Find("b").First().Text())
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			r.cells = append(r.cells, cell{
				text:    strings.TrimSpace(td.Text()),
				class:   td.AttrOr("class", ""),
				colspan: td.AttrOr("colspan", ""),
			})
		})
		rows = append(rows, r)
	})
	return rows
}

// Parse extracts trades, account balance and summary figures from a broker
// trade-history HTML export. Individual rows that fail resolution are
// skipped and counted; the only fatal conditions are an unparseable
// document and a missing Positions section. Pure over the input string.
func Parse(ctx context.Context, html string) (*Report, error) {
	ctx, span := logger.StartSpan(ctx, "report_parse")
	defer span.End()

	if strings.TrimSpace(html) == "" {
		return nil, ErrMalformedDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	rows := collectRows(doc)

	headerIdx, strategy, ok := locatePositionsHeader(rows)
	if !ok {
		return nil, ErrPositionsTableNotFound
	}
	logger.Debug(ctx, "Positions section located", "strategy", strategy, "row", headerIdx)

	rep := &Report{}
	start := locateColumnHeader(rows, headerIdx) + 1
	for i := start; i < len(rows); i++ {
		r := rows[i]
		if isSectionEnd(r) {
			break
		}
		if !looksLikeTradeRow(r) {
			continue
		}
		pos, ok, reason := parsePosition(r)
		if !ok {
			rep.SkippedRows++
			logger.ParseWarning(ctx, reason, "row", i)
			continue
		}
		rep.Positions = append(rep.Positions, pos)
	}

	rep.Balance = extractBalance(rows)
	rep.Summary = extractSummary(rows)
	return rep, nil
}

// headerStrategy locates the Positions section header. Strategies run in
// priority order and the first hit wins, so each stays independently
// testable against per-broker fixtures.
type headerStrategy struct {
	name   string
	locate func(rows []row) (int, bool)
}

var headerStrategies = []headerStrategy{
	{"direct-header-text", directHeaderText},
	{"nested-header-markup", nestedHeaderMarkup},
	{"exact-header-cell", exactHeaderCell},
	{"trade-row-backscan", tradeRowBackscan},
}

func locatePositionsHeader(rows []row) (int, string, bool) {
	for _, s := range headerStrategies {
		if idx, ok := s.locate(rows); ok {
			return idx, s.name, true
		}
	}
	return -1, "", false
}

// directHeaderText matches a header row whose text mentions "positions"
// without also mentioning the Orders/Deals sections.
func directHeaderText(rows []row) (int, bool) {
	for i, r := range rows {
		if r.th == nil || !strings.Contains(r.text, "positions") {
			continue
		}
		if strings.Contains(r.text, "order") || strings.Contains(r.text, "deal") {
			continue
		}
		return i, true
	}
	return -1, false
}

// nestedHeaderMarkup matches a th whose own text or nested <b>/<div> text
// mentions "positions". Runs without the Orders/Deals exclusion: some
// exports wrap the section name in markup inside a combined header row.
func nestedHeaderMarkup(rows []row) (int, bool) {
	for i, r := range rows {
		if r.th == nil {
			continue
		}
		if strings.Contains(r.thText, "positions") {
			return i, true
		}
		b := strings.ToLower(strings.TrimSpace(r.th.Find("b").First().Text()))
		if strings.Contains(b, "positions") {
			return i, true
		}
		div := strings.ToLower(strings.TrimSpace(r.th.Find("div").First().Text()))
		if strings.Contains(div, "positions") {
			return i, true
		}
	}
	return -1, false
}

// exactHeaderCell matches a th whose trimmed text (preferring nested
// <b>/<div> content) is exactly "positions", or contains it without the
// Orders/Deals words.
func exactHeaderCell(rows []row) (int, bool) {
	for i, r := range rows {
		if r.th == nil {
			continue
		}
		text := r.thText
		if b := strings.ToLower(strings.TrimSpace(r.th.Find("b").First().Text())); b != "" {
			text = b
		}
		if div := strings.ToLower(strings.TrimSpace(r.th.Find("div").First().Text())); div != "" {
			text = div
		}
		if text == "positions" {
			return i, true
		}
		if strings.Contains(text, "positions") &&
			!strings.Contains(text, "order") && !strings.Contains(text, "deal") {
			return i, true
		}
	}
	return -1, false
}

// tradeRowBackscan is the last resort: find a row that structurally looks
// like a trade (date, buy/sell token, enough cells) and walk backward up
// to 20 rows for the nearest header mentioning "position".
func tradeRowBackscan(rows []row) (int, bool) {
	for i, r := range rows {
		if !dateRe.MatchString(r.text) {
			continue
		}
		if !strings.Contains(r.text, "buy") && !strings.Contains(r.text, "sell") {
			continue
		}
		if len(r.cells) < 8 {
			continue
		}
		if strings.Contains(r.text, "symbol") ||
			strings.Contains(r.text, "orders") || strings.Contains(r.text, "deals") {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-20; j-- {
			if strings.Contains(rows[j].text, "position") {
				return j, true
			}
		}
	}
	return -1, false
}

// locateColumnHeader finds the column-header row within the few rows after
// the section header. Falls back to the row right after the header when no
// candidate matches.
func locateColumnHeader(rows []row, headerIdx int) int {
	for i := headerIdx + 1; i < len(rows) && i < headerIdx+5; i++ {
		t := rows[i].text
		if strings.Contains(t, "time") && strings.Contains(t, "symbol") &&
			(strings.Contains(t, "position") || strings.Contains(t, "volume")) {
			return i
		}
	}
	return headerIdx + 1
}

func isSectionEnd(r row) bool {
	if r.thText == "" {
		return false
	}
	return strings.Contains(r.thText, "orders") ||
		strings.Contains(r.thText, "deals") ||
		strings.Contains(r.thText, "results")
}

func looksLikeTradeRow(r row) bool {
	return dateRe.MatchString(r.text) && timeRe.MatchString(r.text) &&
		(strings.Contains(r.text, "buy") || strings.Contains(r.text, "sell"))
}

// symbolColumn resolves which cell holds the instrument symbol. First pass
// wants a symbol-shaped cell immediately followed by a buy/sell cell; the
// fallback accepts any short lettered cell in the first few columns with a
// buy/sell neighbor.
func symbolColumn(cells []cell) (int, bool) {
	for i := 0; i < len(cells)-1; i++ {
		t := cells[i].text
		if len(t) < 2 || len(t) > 12 || !symbolRe.MatchString(t) {
			continue
		}
		if pureNumberRe.MatchString(t) || dateStartRe.MatchString(t) || timeStartRe.MatchString(t) {
			continue
		}
		if isDirection(cells[i+1].text) {
			return i, true
		}
	}
	for i := 1; i < len(cells)-1 && i < 5; i++ {
		t := cells[i].text
		if len(t) < 2 || len(t) > 12 {
			continue
		}
		if !hasLetterRe.MatchString(t) || pureNumberRe.MatchString(t) {
			continue
		}
		if isDirection(cells[i+1].text) {
			return i, true
		}
	}
	return -1, false
}

func isDirection(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "buy" || s == "sell"
}

// markerColumn finds the wide filler cell some export layouts place between
// the fixed leading columns and the trailing numeric block.
func markerColumn(cells []cell, from int) (int, bool) {
	for i := from; i < len(cells); i++ {
		if strings.Contains(cells[i].class, "hidden") || cells[i].colspan == "8" {
			return i, true
		}
	}
	return -1, false
}

func parsePosition(r row) (Position, bool, string) {
	cells := r.cells
	if len(cells) < 10 {
		return Position{}, false, "too few cells"
	}

	symIdx, ok := symbolColumn(cells)
	if !ok {
		return Position{}, false, "no symbol column resolved"
	}

	pos := Position{
		OpenTime:  cells[0].text,
		Symbol:    strings.ToUpper(cells[symIdx].text),
		Direction: strings.ToLower(strings.TrimSpace(cells[symIdx+1].text)),
	}

	if markerIdx, found := markerColumn(cells, symIdx+2); found {
		if !readMarkerLayout(&pos, cells, markerIdx) {
			return Position{}, false, "too few cells after layout marker"
		}
	} else {
		readPositionalLayout(&pos, cells)
	}

	if pos.Entry <= 0 || pos.Volume <= 0 {
		return Position{}, false, "non-positive entry or volume"
	}
	return pos, true, ""
}

// readMarkerLayout reads the trailing numeric block positionally after the
// marker cell: Volume | Entry | S/L | T/P | CloseTime | ClosePrice |
// Commission | Swap | Profit.
func readMarkerLayout(pos *Position, cells []cell, markerIdx int) bool {
	data := cells[markerIdx+1:]
	if len(data) < 5 {
		return false
	}
	pos.Volume = parseNumber(data[0].text)
	pos.Entry = parseNumber(data[1].text)
	pos.StopLoss = parseNumber(data[2].text)
	pos.TakeProfit = parseNumber(data[3].text)
	pos.CloseTime = data[4].text
	if len(data) > 5 {
		pos.ClosePrice = parseNumber(data[5].text)
	}
	switch {
	case len(data) >= 9:
		pos.Commission = parseNumber(data[6].text)
		pos.Swap = parseNumber(data[7].text)
		pos.Profit = parseNumber(data[8].text)
	case len(data) >= 8:
		pos.Commission = parseNumber(data[6].text)
		pos.Swap = parseNumber(data[7].text)
		pos.Profit = parseNumber(data[len(data)-1].text)
	default:
		pos.Profit = parseNumber(data[len(data)-1].text)
	}
	return true
}

// readPositionalLayout is the no-marker fallback: fixed offsets from the
// row start for the leading block, then a scan for the close-time cell to
// anchor the trailing block.
func readPositionalLayout(pos *Position, cells []cell) {
	pos.Volume = parseNumber(cells[4].text)
	pos.Entry = parseNumber(cells[5].text)
	pos.StopLoss = parseNumber(cells[6].text)
	pos.TakeProfit = parseNumber(cells[7].text)

	closePriceIdx := -1
	for i := 8; i < len(cells); i++ {
		if dateRe.MatchString(cells[i].text) {
			pos.CloseTime = cells[i].text
			if i+1 < len(cells) {
				pos.ClosePrice = parseNumber(cells[i+1].text)
				closePriceIdx = i + 1
			}
			break
		}
	}

	if closePriceIdx >= 0 && len(cells) > closePriceIdx+3 {
		pos.Commission = parseNumber(cells[closePriceIdx+1].text)
		pos.Swap = parseNumber(cells[closePriceIdx+2].text)
	}

	pos.Profit = parseNumber(cells[len(cells)-1].text)
	if pos.Profit == 0 && len(cells) > 1 {
		// Profit sometimes sits in a colspan cell one position earlier.
		secondLast := cells[len(cells)-2].text
		if alt := parseNumber(secondLast); alt != 0 || strings.Contains(secondLast, "-") {
			pos.Profit = alt
		}
	}
}
