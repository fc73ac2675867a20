package domain

import "time"

// Article represents a single news-headline row from the input table.
// Identity is the row position; rows are enriched in place and never
// mutated concurrently.
type Article struct {
	Row       int    // Zero-based position in the input table
	Headline  string // Headline text fed to the sentiment scorer
	RawDate   string // Date column as read from the input, unparsed
	RawTime   string // Time column as read, may be empty
	Sentiment float64

	// Extra holds input columns other than Headline/Date/Time, preserved
	// untouched for the output table.
	Extra map[string]string

	// Set once alignment succeeds; zero values otherwise.
	Instant time.Time // Reference instant in UTC
	Aligned bool
}
