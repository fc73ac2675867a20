package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"sentimentMarket/config"
	"sentimentMarket/internal/adapters/logger"
	"sentimentMarket/internal/adapters/sqlite"
	"sentimentMarket/internal/analytics"
)

// Inspect persisted runs: list the most recent summaries, or recompute the
// correlation for a single run from its stored rows.
func main() {
	limitFlag := flag.Int("limit", 10, "number of recent runs to list")
	runFlag := flag.Int64("run", 0, "recompute statistics for this run ID from stored rows")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.DBPath == "" {
		log.Fatalf("FATAL: DB_PATH must be set to analyze persisted runs")
	}

	// 2. Initialize Logger
	appLogger := logger.NewZeroLogger(cfg.LogLevel)

	// 3. Initialize Repository
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to open result repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	if *runFlag > 0 {
		rows, err := repo.FindRows(ctx, *runFlag)
		if err != nil {
			log.Fatalf("FATAL: Failed to load rows for run %d: %v", *runFlag, err)
		}
		if len(rows) == 0 {
			log.Fatalf("FATAL: No rows stored for run %d", *runFlag)
		}
		now := time.Now().UTC()
		sum := analytics.Summarize(cfg.Symbol, rows, now, now)
		fmt.Printf("Run %d: %d rows (%d degraded), agree=%d disagree=%d noSignal=%d accuracy=%.2f\n",
			*runFlag, sum.TotalRows, sum.DegradedRows, sum.AgreeCount, sum.DisagreeCnt, sum.NoSignalCnt, sum.Accuracy)
		if sum.SampleSize >= 3 {
			fmt.Printf("Correlation (sentiment vs 60m price change): r=%.4f (p=%.4f, n=%d)\n", sum.R, sum.P, sum.SampleSize)
		} else {
			fmt.Printf("Too few rows with market data for a correlation estimate (n=%d)\n", sum.SampleSize)
		}
		return
	}

	summaries, err := repo.FindRunSummaries(ctx, *limitFlag)
	if err != nil {
		log.Fatalf("FATAL: Failed to load run summaries: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No runs stored yet.")
		return
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  rows=%d degraded=%d accuracy=%.2f r=%.4f p=%.4f n=%d\n",
			s.StartedAt.Format("2006-01-02 15:04:05"), s.Symbol,
			s.TotalRows, s.DegradedRows, s.Accuracy, s.R, s.P, s.SampleSize)
	}
}
