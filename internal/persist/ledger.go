package persist

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"ai-stock-forecaster/internal/types"
)

var historyHeader = []string{
	"date", "symbol", "actual_price", "price_change",
	"price_change_percent", "ai_sentiment_for_tomorrow",
	"predicted_low_for_tomorrow", "predicted_high_for_tomorrow",
	"yesterdays_predicted_range", "accuracy_check_hit",
}

// AppendHistoryRow appends one row to the history ledger, writing the header
// first if the file is being created. The ledger stays consistent up to the
// last completed symbol even if the run dies before the snapshot flush.
func (s *Store) AppendHistoryRow(row *types.HistoryRow) error {
	_, statErr := os.Stat(s.historyPath)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.historyPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history ledger %s: %w", s.historyPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	if err := w.Write(rowFields(row)); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func rowFields(row *types.HistoryRow) []string {
	return []string{
		row.Date,
		row.Symbol,
		formatFloat(row.ActualPrice),
		formatFloat(row.PriceChange),
		formatFloat(row.PriceChangePercent),
		row.Sentiment,
		formatFloatPtr(row.PredictedLow),
		formatFloatPtr(row.PredictedHigh),
		row.YesterdaysPredictedRange,
		formatBoolPtr(row.AccuracyHit),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// An empty cell means the accuracy check was Unknown.
func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
