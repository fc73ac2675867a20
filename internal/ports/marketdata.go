package ports

import (
	"context"
	"time"

	"sentimentMarket/internal/domain"
)

// BarSource defines the interface for retrieving intraday price bars from a
// market data provider. This abstraction decouples the pipeline from any
// specific provider implementation, so the core stays testable with
// deterministic stubs.
type BarSource interface {
	// Bars retrieves the chronological one-minute bars starting at the given
	// UTC instant, up to the provider's configured limit. An empty slice with
	// a nil error means the provider had no data for that instant.
	Bars(ctx context.Context, instant time.Time) ([]*domain.Bar, error)
}

// SentimentScorer defines the interface for the external text-classification
// model. Scores are in [-1, 1]: positive probability minus negative.
type SentimentScorer interface {
	// Score analyzes a headline and returns its polarity score.
	Score(ctx context.Context, text string) (float64, error)
}
