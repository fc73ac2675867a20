package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sentimentMarket/internal/domain"
	"sentimentMarket/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.ResultRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/sentiment_runs.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Set connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		total_rows INTEGER NOT NULL,
		degraded_rows INTEGER NOT NULL,
		agree_count INTEGER NOT NULL,
		disagree_count INTEGER NOT NULL,
		nosignal_count INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		sample_size INTEGER NOT NULL,
		r REAL NOT NULL,
		p REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		row_num INTEGER NOT NULL,
		headline TEXT NOT NULL,
		raw_date TEXT NOT NULL,
		raw_time TEXT NULL,
		sentiment REAL NOT NULL,
		vol_5m REAL NOT NULL, chg_5m REAL NOT NULL,
		vol_30m REAL NOT NULL, chg_30m REAL NOT NULL,
		vol_60m REAL NOT NULL, chg_60m REAL NOT NULL,
		vol_day REAL NOT NULL, chg_day REAL NOT NULL,
		label TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_rows_run_id ON run_rows (run_id, row_num);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveRun stores a run summary and its rows in one transaction.
func (r *Repository) SaveRun(ctx context.Context, table *domain.ResultTable) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w: %w", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	s := table.Summary
	const runQuery = `
	INSERT INTO runs (symbol, started_at, finished_at, total_rows, degraded_rows,
	                  agree_count, disagree_count, nosignal_count, accuracy, sample_size, r, p)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, runQuery,
		s.Symbol, s.StartedAt, s.FinishedAt, s.TotalRows, s.DegradedRows,
		s.AgreeCount, s.DisagreeCnt, s.NoSignalCnt, s.Accuracy, s.SampleSize, s.R, s.P)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run for symbol %s: %w: %w", s.Symbol, ports.ErrQueryFailed, err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	const rowQuery = `
	INSERT INTO run_rows (run_id, row_num, headline, raw_date, raw_time, sentiment,
	                      vol_5m, chg_5m, vol_30m, chg_30m, vol_60m, chg_60m, vol_day, chg_day, label)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, rowQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w: %w", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		m := row.Metrics
		_, err := stmt.ExecContext(ctx,
			runID, row.Article.Row, row.Article.Headline, row.Article.RawDate, row.Article.RawTime,
			row.Article.Sentiment,
			m.Vol5, m.Chg5, m.Vol30, m.Chg30, m.Vol60, m.Chg60, m.VolDay, m.ChgDay,
			string(row.Label))
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w: %w", row.Article.Row, ports.ErrQueryFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w: %w", ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Run persisted", map[string]interface{}{"runID": runID, "rows": len(table.Rows)})
	return runID, nil
}

// FindRunSummaries retrieves the most recent run summaries, newest first.
func (r *Repository) FindRunSummaries(ctx context.Context, limit int) ([]*domain.RunSummary, error) {
	const query = `
	SELECT symbol, started_at, finished_at, total_rows, degraded_rows,
	       agree_count, disagree_count, nosignal_count, accuracy, sample_size, r, p
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var summaries []*domain.RunSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// FindRows retrieves the stored rows for a run in input order.
func (r *Repository) FindRows(ctx context.Context, runID int64) ([]*domain.ResultRow, error) {
	const query = `
	SELECT row_num, headline, raw_date, raw_time, sentiment,
	       vol_5m, chg_5m, vol_30m, chg_30m, vol_60m, chg_60m, vol_day, chg_day, label
	FROM run_rows
	WHERE run_id = ?
	ORDER BY row_num ASC`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for run %d: %w: %w", runID, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []*domain.ResultRow
	for rows.Next() {
		row, err := scanResultRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(s scanner) (*domain.RunSummary, error) {
	sum := &domain.RunSummary{}
	err := s.Scan(
		&sum.Symbol, &sum.StartedAt, &sum.FinishedAt, &sum.TotalRows, &sum.DegradedRows,
		&sum.AgreeCount, &sum.DisagreeCnt, &sum.NoSignalCnt, &sum.Accuracy,
		&sum.SampleSize, &sum.R, &sum.P)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func scanResultRow(s scanner) (*domain.ResultRow, error) {
	art := &domain.Article{}
	row := &domain.ResultRow{Article: art}
	var rawTime sql.NullString
	var label string
	err := s.Scan(
		&art.Row, &art.Headline, &art.RawDate, &rawTime, &art.Sentiment,
		&row.Metrics.Vol5, &row.Metrics.Chg5, &row.Metrics.Vol30, &row.Metrics.Chg30,
		&row.Metrics.Vol60, &row.Metrics.Chg60, &row.Metrics.VolDay, &row.Metrics.ChgDay,
		&label)
	if err != nil {
		return nil, err
	}
	if rawTime.Valid {
		art.RawTime = rawTime.String
	}
	row.Label = domain.AccuracyLabel(label)
	return row, nil
}
