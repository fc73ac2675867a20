package metrics

import (
	"fmt"

	"sentimentMarket/internal/domain"
)

// MinBars is the minimum series length below which no metrics are computed.
// A shorter series yields the zero vector, which downstream code treats as
// "no signal" rather than a failure.
const MinBars = 5

// Window lengths in bars. The last window always covers the full series
// ("day" window).
var windowLengths = [3]int{5, 30, 60}

// Calculator derives an ImpactMetrics vector from a chronological bar series.
//
// Every window is anchored to bars[0].Open: window 60's price change is
// measured from bar 0, not from bar 30. Later windows therefore report the
// cumulative move from the same base price.
type Calculator struct{}

// NewCalculator creates a metrics calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute calculates per-window volatility and price change for the series.
// Series shorter than MinBars produce the zero vector. A degenerate base
// open price zeroes out each window's pair individually rather than aborting
// the whole vector.
func (c *Calculator) Compute(bars []*domain.Bar) domain.ImpactMetrics {
	if len(bars) < MinBars {
		return domain.ImpactMetrics{}
	}

	baseOpen := bars[0].Open
	windows := []int{windowLengths[0], windowLengths[1], windowLengths[2], len(bars)}

	var out [8]float64
	for i, w := range windows {
		limit := w
		if limit > len(bars) {
			limit = len(bars)
		}
		vol, chg, err := windowPair(bars[:limit], baseOpen)
		if err != nil {
			continue // pair stays (0, 0)
		}
		out[2*i] = vol
		out[2*i+1] = chg
	}

	return domain.ImpactMetrics{
		Vol5: out[0], Chg5: out[1],
		Vol30: out[2], Chg30: out[3],
		Vol60: out[4], Chg60: out[5],
		VolDay: out[6], ChgDay: out[7],
	}
}

func windowPair(slice []*domain.Bar, baseOpen float64) (vol, chg float64, err error) {
	if baseOpen == 0 {
		return 0, 0, fmt.Errorf("degenerate base open price")
	}
	highVal := slice[0].High
	lowVal := slice[0].Low
	for _, b := range slice[1:] {
		if b.High > highVal {
			highVal = b.High
		}
		if b.Low < lowVal {
			lowVal = b.Low
		}
	}
	closeVal := slice[len(slice)-1].Close

	vol = (highVal - lowVal) / baseOpen * 100.0
	chg = (closeVal - baseOpen) / baseOpen * 100.0
	return vol, chg, nil
}
