package app

import (
	"context"
	"fmt"
	"time"

	"sentimentMarket/config"
	"sentimentMarket/internal/analytics"
	"sentimentMarket/internal/domain"
	"sentimentMarket/internal/labeling"
	"sentimentMarket/internal/metrics"
	"sentimentMarket/internal/ports"
	"sentimentMarket/internal/timealign"
)

// AnalysisService orchestrates the sentiment/market-impact pipeline: score,
// align, fetch, compute, label, summarize. Articles are processed one at a
// time in input order; there is no shared mutable state across rows.
type AnalysisService struct {
	cfg        *config.Config
	logger     ports.Logger
	scorer     ports.SentimentScorer
	bars       ports.BarSource
	aligner    *timealign.Aligner
	calculator *metrics.Calculator
	labeler    *labeling.Labeler
	repo       ports.ResultRepository // nil disables run persistence
}

// NewAnalysisService creates a new application service instance.
func NewAnalysisService(
	cfg *config.Config,
	logger ports.Logger,
	scorer ports.SentimentScorer,
	bars ports.BarSource,
	aligner *timealign.Aligner,
	repo ports.ResultRepository,
) (*AnalysisService, error) {

	// Validate dependencies (repo is optional)
	if cfg == nil || logger == nil || scorer == nil || bars == nil || aligner == nil {
		return nil, fmt.Errorf("missing required dependencies for AnalysisService")
	}
	if cfg.FetchTimeout <= 0 || cfg.ScoreTimeout <= 0 {
		return nil, fmt.Errorf("configuration timeouts must be positive")
	}
	if cfg.ProgressEvery <= 0 {
		return nil, fmt.Errorf("configuration ProgressEvery must be positive")
	}

	return &AnalysisService{
		cfg:        cfg,
		logger:     logger,
		scorer:     scorer,
		bars:       bars,
		aligner:    aligner,
		calculator: metrics.NewCalculator(),
		labeler:    labeling.NewLabeler(cfg.SentimentThreshold),
		repo:       repo,
	}, nil
}

// Run processes every article and returns the assembled result table.
//
// All per-row failures degrade to defined defaults: a scorer failure scores
// 0.0, a failed alignment or a failed/empty fetch yields the zero feature
// vector. Only a canceled context aborts the batch.
func (s *AnalysisService) Run(ctx context.Context, articles []*domain.Article) (*domain.ResultTable, error) {
	started := time.Now().UTC()
	total := len(articles)
	s.logger.Info(ctx, "Starting multi-timeframe pipeline", map[string]interface{}{
		"symbol": s.cfg.Symbol, "articles": total,
	})

	rows := make([]*domain.ResultRow, 0, total)
	for i, art := range articles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline aborted at row %d: %w: %w", i, ports.ErrContextCanceled, err)
		}
		if i%s.cfg.ProgressEvery == 0 {
			s.logger.Info(ctx, "Processing articles", map[string]interface{}{"done": i, "total": total})
		}
		rows = append(rows, s.processArticle(ctx, art))
	}

	table := &domain.ResultTable{Rows: rows}
	table.Summary = analytics.Summarize(s.cfg.Symbol, rows, started, time.Now().UTC())

	s.logSummary(ctx, table.Summary)

	if s.repo != nil {
		if runID, err := s.repo.SaveRun(ctx, table); err != nil {
			// Persistence is best-effort; the table is still returned for the writer.
			s.logger.Error(ctx, err, "Failed to persist run")
		} else {
			s.logger.Info(ctx, "Run persisted", map[string]interface{}{"runID": runID})
		}
	}

	return table, nil
}

// processArticle runs the per-row stages. It never returns an error: every
// failure is swallowed into the row's defaults so one bad row cannot abort
// the batch.
func (s *AnalysisService) processArticle(ctx context.Context, art *domain.Article) *domain.ResultRow {
	art.Sentiment = s.scoreHeadline(ctx, art)

	row := &domain.ResultRow{Article: art, Label: domain.LabelNoSignal}

	instant, ok := s.aligner.Align(ctx, art.RawDate, art.RawTime)
	if ok {
		art.Instant = instant
		art.Aligned = true
		row.Metrics = s.calculator.Compute(s.fetchBars(ctx, art, instant))
	}
	// Unaligned rows keep the zero vector and skip fetching entirely.

	row.Label = s.labeler.Label(art.Sentiment, row.Metrics.Chg60)
	return row
}

// scoreHeadline invokes the external scorer with a bounded timeout. Any
// failure maps to a neutral 0.0 score.
func (s *AnalysisService) scoreHeadline(ctx context.Context, art *domain.Article) float64 {
	scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScoreTimeout)
	defer cancel()

	score, err := s.scorer.Score(scoreCtx, art.Headline)
	if err != nil {
		s.logger.Warn(ctx, "Sentiment scoring failed, defaulting to neutral", map[string]interface{}{
			"row": art.Row, "error": err.Error(),
		})
		return 0.0
	}
	return score
}

// fetchBars invokes the external bar source with a bounded timeout. Any
// failure, including a timeout, maps to an empty series.
func (s *AnalysisService) fetchBars(ctx context.Context, art *domain.Article, instant time.Time) []*domain.Bar {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	bars, err := s.bars.Bars(fetchCtx, instant)
	if err != nil {
		s.logger.Warn(ctx, "Bar fetch failed, row degrades to zero metrics", map[string]interface{}{
			"row": art.Row, "instant": instant.Format(time.RFC3339), "error": err.Error(),
		})
		return nil
	}
	if len(bars) == 0 {
		s.logger.Debug(ctx, "No bars for instant", map[string]interface{}{
			"row": art.Row, "instant": instant.Format(time.RFC3339),
		})
	}
	return bars
}

func (s *AnalysisService) logSummary(ctx context.Context, sum domain.RunSummary) {
	fields := map[string]interface{}{
		"rows":     sum.TotalRows,
		"degraded": sum.DegradedRows,
		"agree":    sum.AgreeCount,
		"disagree": sum.DisagreeCnt,
		"noSignal": sum.NoSignalCnt,
		"sample":   sum.SampleSize,
	}
	if sum.SampleSize >= 3 {
		fields["r"] = fmt.Sprintf("%.4f", sum.R)
		fields["p"] = fmt.Sprintf("%.4f", sum.P)
		s.logger.Info(ctx, "Correlation (sentiment vs 60m price change)", fields)
	} else {
		s.logger.Warn(ctx, "Too few rows with market data for a correlation estimate", fields)
	}
}
