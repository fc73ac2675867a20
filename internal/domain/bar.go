package domain

import "time"

// Bar represents a single OHLC price sample for a fixed one-minute interval.
type Bar struct {
	Timestamp time.Time // Start time of the interval
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Trading volume (informational, not used by metrics)
}
