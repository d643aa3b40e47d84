package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/types"
)

// Store is the persistence gateway for the two file sinks: the live snapshot
// (full overwrite) and the history ledger (append-only).
type Store struct {
	snapshotPath string
	historyPath  string
}

// NewStore creates a gateway over the given sink paths.
func NewStore(snapshotPath, historyPath string) *Store {
	return &Store{snapshotPath: snapshotPath, historyPath: historyPath}
}

func (s *Store) SnapshotPath() string { return s.snapshotPath }
func (s *Store) HistoryPath() string  { return s.historyPath }

// LoadPriorSnapshot reads the previous run's live snapshot and returns the
// usable prior records keyed by symbol. A missing or corrupt file means
// starting fresh, never a failure. Error-variant records are excluded: a
// failed cycle is not yesterday's prediction.
func (s *Store) LoadPriorSnapshot(ctx context.Context) map[string]*types.PredictionRecord {
	prior := make(map[string]*types.PredictionRecord)

	b, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		logger.Info(ctx, "Previous snapshot not found - starting fresh", "path", s.snapshotPath)
		return prior
	}

	var snap types.LiveSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		logger.Warn(ctx, "Previous snapshot unreadable - starting fresh", "path", s.snapshotPath, "error", err)
		return prior
	}

	for i := range snap.Predictions {
		rec := &snap.Predictions[i]
		if rec.Symbol == "" || rec.IsError() {
			continue
		}
		prior[rec.Symbol] = rec
	}
	return prior
}

// WriteSnapshot overwrites the live snapshot with pretty-printed JSON.
// Called exactly once per run, after every symbol has a terminal record.
func (s *Store) WriteSnapshot(snap *types.LiveSnapshot) error {
	b, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.snapshotPath, err)
	}
	return nil
}
