package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"sentimentMarket/config"
	"sentimentMarket/internal/adapters/alpaca"
	"sentimentMarket/internal/adapters/binancebars"
	"sentimentMarket/internal/adapters/csvfile"
	"sentimentMarket/internal/adapters/logger"
	"sentimentMarket/internal/adapters/sentiment"
	"sentimentMarket/internal/adapters/sqlite"
	"sentimentMarket/internal/app"
	"sentimentMarket/internal/ports"
	"sentimentMarket/internal/timealign"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewZeroLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Sentiment Scorer
	// Collaborators are constructed up front; a broken scorer or bar source is
	// fatal here rather than silently degrading every row to zero.
	scorer, err := sentiment.New(sentiment.Config{
		Model:   cfg.SentimentModel,
		Token:   cfg.HFToken,
		Timeout: cfg.ScoreTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize sentiment scorer")
		log.Fatalf("FATAL: Failed to initialize sentiment scorer: %v", err)
	}
	appLogger.Info(context.Background(), "Sentiment scorer initialized", map[string]interface{}{"model": cfg.SentimentModel})

	// 4. Initialize Bar Source
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
	appLogger.Info(context.Background(), "Bar source initialized", map[string]interface{}{
		"provider": cfg.DataProvider, "symbol": cfg.Symbol,
	})

	// 5. Initialize Time Aligner
	aligner, err := timealign.New(timealign.Config{
		MarketTimezone: cfg.MarketTimezone,
		Logger:         appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize time aligner")
		log.Fatalf("FATAL: Failed to initialize time aligner: %v", err)
	}

	// 6. Initialize Repository (optional run persistence)
	var repo ports.ResultRepository
	if cfg.DBPath != "" {
		sqliteRepo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize result repository")
			log.Fatalf("FATAL: Failed to initialize result repository: %v", err)
		}
		defer func() {
			if err := sqliteRepo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing result repository")
			}
		}()
		repo = sqliteRepo
	}

	// 7. Initialize Application Service
	service, err := app.NewAnalysisService(cfg, appLogger, scorer, barSource, aligner, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize analysis service")
		log.Fatalf("FATAL: Failed to initialize analysis service: %v", err)
	}

	// 8. Load input, run the pipeline, write output
	input, err := csvfile.ReadArticles(cfg.InputPath)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to load input table")
		log.Fatalf("FATAL: Failed to load input table: %v", err)
	}
	appLogger.Info(context.Background(), "Loaded articles", map[string]interface{}{
		"path": cfg.InputPath, "count": len(input.Articles),
	})

	table, err := service.Run(context.Background(), input.Articles)
	if err != nil {
		appLogger.Error(context.Background(), err, "Pipeline exited with error")
		log.Fatalf("FATAL: Pipeline exited with error: %v", err)
	}

	if err := csvfile.WriteResults(cfg.OutputPath, table, input.ExtraHeaders); err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to write output table")
		log.Fatalf("FATAL: Failed to write output table: %v", err)
	}
	appLogger.Info(context.Background(), "Saved results", map[string]interface{}{"path": cfg.OutputPath})
}
