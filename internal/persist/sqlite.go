package persist

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/types"
)

// SQLiteRecorder mirrors history rows into a SQLite database for downstream
// analytics (dashboards, accuracy studies). The CSV ledger remains the
// contractual sink; this one is a convenience.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ interfaces.Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analytics reads do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id                         INTEGER PRIMARY KEY AUTOINCREMENT,
			date                       TEXT NOT NULL,
			symbol                     TEXT NOT NULL,
			actual_price               REAL,
			price_change               REAL,
			price_change_percent       REAL,
			sentiment                  TEXT,
			predicted_low              REAL,
			predicted_high             REAL,
			yesterdays_predicted_range TEXT,
			accuracy_check_hit         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_date_symbol ON predictions(date, symbol)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction inserts one history row.
func (r *SQLiteRecorder) RecordPrediction(row *types.HistoryRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO predictions (
			date, symbol, actual_price, price_change, price_change_percent,
			sentiment, predicted_low, predicted_high,
			yesterdays_predicted_range, accuracy_check_hit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Date, row.Symbol, row.ActualPrice, row.PriceChange,
		row.PriceChangePercent, row.Sentiment, row.PredictedLow,
		row.PredictedHigh, row.YesterdaysPredictedRange, row.AccuracyHit,
	)
	if err != nil {
		return fmt.Errorf("insert prediction row: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
