package analytics

import (
	"time"

	"sentimentMarket/internal/domain"
)

// Summarize calculates the aggregate statistics for a finished run.
//
// The correlation sample is restricted to rows whose day-window volatility is
// strictly positive: an all-zero vector (failed alignment or empty fetch)
// always has zero day volatility, so the filter doubles as a cheap "had real
// market data" check. The correlated move is the 60-bar price change, the
// same component the accuracy label uses.
func Summarize(symbol string, rows []*domain.ResultRow, started, finished time.Time) domain.RunSummary {
	s := domain.RunSummary{
		Symbol:     symbol,
		StartedAt:  started,
		FinishedAt: finished,
		TotalRows:  len(rows),
	}

	var sentiments, moves []float64
	for _, row := range rows {
		if row.Metrics.IsZero() {
			s.DegradedRows++
		}
		switch row.Label {
		case domain.LabelAgree:
			s.AgreeCount++
		case domain.LabelDisagree:
			s.DisagreeCnt++
		default:
			s.NoSignalCnt++
		}
		if row.Metrics.VolDay > 0 {
			sentiments = append(sentiments, row.Article.Sentiment)
			moves = append(moves, row.Metrics.Chg60)
		}
	}

	if labeled := s.AgreeCount + s.DisagreeCnt; labeled > 0 {
		s.Accuracy = float64(s.AgreeCount) / float64(labeled)
	}

	s.SampleSize = len(sentiments)
	if r, p, err := Pearson(sentiments, moves); err == nil {
		s.R = r
		s.P = p
	}
	return s
}
