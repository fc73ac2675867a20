package labeling

import "sentimentMarket/internal/domain"

// DefaultThreshold is the sentiment magnitude below which a score counts as
// neutral rather than a directional prediction.
const DefaultThreshold = 0.05

// Labeler decides whether sentiment polarity agreed with the realized price
// direction. The 60-bar window move is used rather than the day window; the
// shorter horizon is less exposed to unrelated intraday drift.
type Labeler struct {
	threshold float64
}

// NewLabeler creates a labeler with the given neutrality threshold. A
// non-positive threshold falls back to DefaultThreshold.
func NewLabeler(threshold float64) *Labeler {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Labeler{threshold: threshold}
}

// Label classifies one row. Sentiment within [-threshold, threshold] or a
// move that does not confirm/contradict the signal's direction yields
// LabelNoSignal: neutral sentiment or a flat move is an absence of a
// falsifiable prediction, not a wrong one.
func (l *Labeler) Label(sentiment, move60 float64) domain.AccuracyLabel {
	switch {
	case sentiment > l.threshold && move60 > 0:
		return domain.LabelAgree
	case sentiment < -l.threshold && move60 < 0:
		return domain.LabelAgree
	case sentiment > l.threshold && move60 < 0:
		return domain.LabelDisagree
	case sentiment < -l.threshold && move60 > 0:
		return domain.LabelDisagree
	default:
		return domain.LabelNoSignal
	}
}
