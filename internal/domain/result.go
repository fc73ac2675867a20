package domain

import "time"

// ResultRow couples one article with its computed metrics and label.
type ResultRow struct {
	Article *Article
	Metrics ImpactMetrics
	Label   AccuracyLabel
}

// RunSummary holds the process-wide statistics computed once over a run.
type RunSummary struct {
	Symbol     string
	StartedAt  time.Time
	FinishedAt time.Time

	TotalRows    int
	DegradedRows int // rows with an all-zero feature vector (failed align or fetch)
	AgreeCount   int
	DisagreeCnt  int
	NoSignalCnt  int
	Accuracy     float64 // agree / (agree + disagree), 0 when nothing labeled

	// Pearson correlation between sentiment and the 60-bar price change,
	// over rows whose day-window volatility is strictly positive.
	SampleSize int
	R          float64
	P          float64
}

// ResultTable is the ordered collection of per-article rows plus the summary.
type ResultTable struct {
	Rows    []*ResultRow
	Summary RunSummary
}
