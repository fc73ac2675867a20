package ports

import (
	"context"

	"sentimentMarket/internal/domain"
)

// ResultRepository defines the interface for persisting completed runs and
// their per-article rows.
type ResultRepository interface {
	// SaveRun stores a finished run (summary plus all rows) and returns its
	// assigned ID.
	SaveRun(ctx context.Context, table *domain.ResultTable) (int64, error)
	// FindRunSummaries retrieves the most recent run summaries, newest first,
	// up to a limit.
	FindRunSummaries(ctx context.Context, limit int) ([]*domain.RunSummary, error)
	// FindRows retrieves the stored rows for a run in input order.
	FindRows(ctx context.Context, runID int64) ([]*domain.ResultRow, error)
}
