package record

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ai-stock-forecaster/internal/accuracy"
	"ai-stock-forecaster/internal/types"
)

// The live snapshot keeps dashboard-friendly precision; the history ledger
// keeps more for downstream analysis.
const (
	livePrecision   = 2
	ledgerPrecision = 4
)

// Build assembles the success-variant prediction record and its history row
// from the cycle's price facts, forecast, and accuracy result. now stamps
// the history row's date.
func Build(obs types.PriceObservation, fc types.ForecastRange, acc accuracy.Result, now time.Time) (types.PredictionRecord, types.HistoryRow, error) {
	pct, err := obs.PriceChangePercent()
	if err != nil {
		return types.PredictionRecord{}, types.HistoryRow{}, fmt.Errorf("price change percent for %s: %w", obs.Symbol, err)
	}

	// predicted_range appears only when the model produced both bounds.
	var predictedRange []*float64
	if fc.PredictedLow != nil && fc.PredictedHigh != nil {
		predictedRange = []*float64{fc.PredictedLow, fc.PredictedHigh}
	}

	// accuracy_check appears only when the comparison resolved to hit/miss.
	var check *types.AccuracyCheck
	if hit := acc.Status.Hit(); hit != nil {
		check = &types.AccuracyCheck{
			YesterdaysPredictedRange: acc.Display,
			TodaysActualPrice:        fmt.Sprintf("$%.2f", obs.CurrentPrice),
			Hit:                      *hit,
		}
	}

	rec := types.PredictionRecord{
		Symbol:             obs.Symbol,
		CurrentPrice:       round(obs.CurrentPrice, livePrecision),
		PriceChange:        round(obs.PriceChange(), livePrecision),
		PriceChangePercent: round(pct, livePrecision),
		Sentiment:          fc.Sentiment,
		Reasoning:          fc.Reasoning,
		PredictedRange:     predictedRange,
		AccuracyCheck:      check,
	}

	row := types.HistoryRow{
		Date:                     now.UTC().Format("2006-01-02"),
		Symbol:                   obs.Symbol,
		ActualPrice:              round(obs.CurrentPrice, ledgerPrecision),
		PriceChange:              round(obs.PriceChange(), ledgerPrecision),
		PriceChangePercent:       round(pct, ledgerPrecision),
		Sentiment:                fc.Sentiment,
		PredictedLow:             roundPtr(fc.PredictedLow, ledgerPrecision),
		PredictedHigh:            roundPtr(fc.PredictedHigh, ledgerPrecision),
		YesterdaysPredictedRange: acc.Display,
		AccuracyHit:              acc.Status.Hit(),
	}

	return rec, row, nil
}

// ErrorRecord builds the error-variant record for a symbol whose cycle
// failed. It carries only the symbol and the failure description, and is
// never treated as a prior forecast on the next run.
func ErrorRecord(symbol string, cause error) types.PredictionRecord {
	return types.PredictionRecord{Symbol: symbol, Err: cause.Error()}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}
