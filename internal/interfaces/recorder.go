package interfaces

import "ai-stock-forecaster/internal/types"

// Recorder mirrors history rows into an analytics store.
type Recorder interface {
	RecordPrediction(row *types.HistoryRow) error
	Close() error
}
