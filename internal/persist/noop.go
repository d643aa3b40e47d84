package persist

import "ai-stock-forecaster/internal/types"

// NoopRecorder is used when no analytics database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPrediction(_ *types.HistoryRow) error { return nil }
func (n *NoopRecorder) Close() error                               { return nil }
