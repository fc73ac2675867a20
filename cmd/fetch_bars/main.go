package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"sentimentMarket/config"
	"sentimentMarket/internal/adapters/alpaca"
	"sentimentMarket/internal/adapters/binancebars"
	"sentimentMarket/internal/adapters/csvfile"
	"sentimentMarket/internal/adapters/logger"
	"sentimentMarket/internal/ports"
	"sentimentMarket/internal/timealign"
)

// One-shot diagnostic: fetch the bars the pipeline would see for a given
// article date/time and dump them to CSV.
func main() {
	dateFlag := flag.String("date", "", "article date, e.g. 2024-02-05")
	timeFlag := flag.String("time", "", "article time, e.g. 09:30 (defaults to market open)")
	outFlag := flag.String("out", "", "output CSV path (defaults to data/<symbol>_<date>_bars.csv)")
	flag.Parse()

	if *dateFlag == "" {
		log.Fatalf("FATAL: -date is required")
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewZeroLogger(cfg.LogLevel)

	// 3. Initialize Bar Source
	var barSource ports.BarSource
	switch cfg.DataProvider {
	case config.ProviderBinance:
		barSource, err = binancebars.New(binancebars.Config{
			APIKey:    cfg.BinanceAPIKey,
			SecretKey: cfg.BinanceSecretKey,
			Symbol:    cfg.Symbol,
			Limit:     cfg.BarLimit,
			Logger:    appLogger,
		})
	default:
		barSource, err = alpaca.New(alpaca.Config{
			APIKey:      cfg.AlpacaAPIKey,
			SecretKey:   cfg.AlpacaSecretKey,
			Symbol:      cfg.Symbol,
			Limit:       cfg.BarLimit,
			Feed:        cfg.AlpacaFeed,
			Timeout:     cfg.FetchTimeout,
			InsecureTLS: cfg.AllowInsecureTLS,
			Logger:      appLogger,
		})
	}
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize bar source")
		log.Fatalf("FATAL: Failed to initialize bar source: %v", err)
	}

	// 4. Align the requested date/time the same way the pipeline does
	aligner, err := timealign.New(timealign.Config{
		MarketTimezone: cfg.MarketTimezone,
		Logger:         appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize time aligner: %v", err)
	}
	instant, ok := aligner.Align(context.Background(), *dateFlag, *timeFlag)
	if !ok {
		log.Fatalf("FATAL: Could not parse date %q / time %q", *dateFlag, *timeFlag)
	}

	// 5. Fetch and save
	bars, err := barSource.Bars(context.Background(), instant)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched bars", map[string]interface{}{"count": len(bars)})

	filename := *outFlag
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s_bars.csv", cfg.Symbol, timealign.NormalizeDate(*dateFlag))
	}
	if err := csvfile.WriteBars(filename, bars); err != nil {
		appLogger.Error(context.Background(), err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(context.Background(), "Saved bars", map[string]interface{}{"filename": filename})
}
