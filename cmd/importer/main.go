package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"trade-journal/internal/analytics"
	"trade-journal/internal/importlog"
	"trade-journal/internal/logger"
	"trade-journal/internal/report"
	"trade-journal/internal/storage"
	"trade-journal/internal/storage/postgres"
	"trade-journal/internal/store"
	"trade-journal/internal/trade"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to an exported HTML trade report")
	url := flag.String("url", "", "URL of an HTML trade report to fetch")
	outputFile := flag.String("output", "", "save metrics JSON to file (optional)")
	noStore := flag.Bool("no-store", false, "skip database persistence even when a DSN is configured")
	flag.Parse()

	if *filePath == "" && *url == "" {
		fmt.Println("Error: one of -file or -url is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown(context.Background())

	if v := os.Getenv("JOURNAL_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		_ = importlog.CompressOlder(n)
	}

	ctx := context.Background()

	html, source, err := loadReport(ctx, cfg, *filePath, *url)
	if err != nil {
		fmt.Printf("Error reading report: %v\n", err)
		os.Exit(1)
	}

	rep, err := report.Parse(ctx, html)
	if err != nil {
		fmt.Printf("Error parsing report: %v\n", err)
		os.Exit(1)
	}

	trades := make([]trade.Trade, 0, len(rep.Positions))
	for _, p := range rep.Positions {
		trades = append(trades, trade.Normalize(p))
	}
	trades = trade.SortDescending(trades, cfg.Location())

	var netPL float64
	for _, t := range trades {
		netPL += t.ProfitLoss
	}
	initialBalance := seedBalance(cfg.Account.InitialBalance, rep.Balance, netPL)

	metrics := analytics.Compute(trades, initialBalance, analytics.Thresholds{
		TargetProfit:        cfg.Risk.TargetProfit,
		MaxDrawdownPct:      cfg.Risk.MaxDrawdownPct,
		MaxDailyDrawdownPct: cfg.Risk.MaxDailyDrawdownPct,
	})

	out, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding metrics: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, out, 0o644); err != nil {
			fmt.Printf("Error saving metrics to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Metrics saved to: %s\n", *outputFile)
	}

	if cfg.Database.DSN != "" && !*noStore {
		if err := persist(ctx, cfg, trades); err != nil {
			fmt.Printf("Error persisting trades: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Persisted %d trades\n", len(trades))
	}

	_ = importlog.Append(importlog.Entry{
		Source:      source,
		Trades:      len(trades),
		SkippedRows: rep.SkippedRows,
		Balance:     rep.Balance,
		NetProfit:   metrics.TotalNetProfit,
	})
	logger.Import(ctx, source, len(trades), rep.SkippedRows, rep.Balance)
}

// seedBalance picks the equity-curve seed. A configured initial balance
// always wins; without one, the starting balance is derived by backing the
// trades' net P/L out of the report's end balance.
func seedBalance(configured, reportBalance, netProfit float64) float64 {
	if configured > 0 {
		return configured
	}
	if reportBalance > 0 {
		return reportBalance - netProfit
	}
	return 0
}

func loadReport(ctx context.Context, cfg *store.Config, filePath, url string) (html, source string, err error) {
	if filePath != "" {
		b, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", err
		}
		return string(b), filePath, nil
	}
	f := report.NewFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return "", "", err
	}
	return body, url, nil
}

func persist(ctx context.Context, cfg *store.Config, trades []trade.Trade) error {
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	var ts storage.TradeStore = postgres.NewTradeStore(pool, cfg.Database.BatchSize)
	return ts.InsertBatch(ctx, trades)
}
