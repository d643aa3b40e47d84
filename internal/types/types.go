package types

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single daily OHLCV bar. Prices stay decimal until a record is
// built so upstream sources can hand them over without float churn.
type Bar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// PriceObservation captures today's close against yesterday's, derived fresh
// each cycle from the two most recent bars.
type PriceObservation struct {
	Symbol        string
	CurrentPrice  float64
	PreviousClose float64
	ObservedAt    time.Time
}

// PriceChange is the absolute move since the previous close.
func (o PriceObservation) PriceChange() float64 {
	return o.CurrentPrice - o.PreviousClose
}

// ErrZeroPreviousClose signals a previous close of zero, which makes the
// percent change undefined.
var ErrZeroPreviousClose = errors.New("previous close is zero")

// PriceChangePercent is the percent move since the previous close.
func (o PriceObservation) PriceChangePercent() (float64, error) {
	if o.PreviousClose == 0 {
		return 0, ErrZeroPreviousClose
	}
	return o.PriceChange() / o.PreviousClose * 100, nil
}

// Forecast sentiments as the model is instructed to emit them.
const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
	SentimentNeutral = "Neutral"
)

// ForecastRange is the model's structured answer for the next session.
// Bounds are pointers: the model may omit either one and consumers must not
// invent values. Nothing enforces PredictedLow <= PredictedHigh.
type ForecastRange struct {
	Sentiment     string   `json:"sentiment"`
	Reasoning     string   `json:"reasoning"`
	PredictedLow  *float64 `json:"predicted_low"`
	PredictedHigh *float64 `json:"predicted_high"`
}

// AccuracyStatus is the tri-state outcome of checking today's price against
// yesterday's forecast range.
type AccuracyStatus int

const (
	AccuracyUnknown AccuracyStatus = iota
	AccuracyHit
	AccuracyMiss
)

func (s AccuracyStatus) String() string {
	switch s {
	case AccuracyHit:
		return "HIT"
	case AccuracyMiss:
		return "MISS"
	default:
		return "UNKNOWN"
	}
}

// Hit maps the status to the nullable boolean the sinks carry: nil for
// Unknown, otherwise true/false.
func (s AccuracyStatus) Hit() *bool {
	switch s {
	case AccuracyHit:
		b := true
		return &b
	case AccuracyMiss:
		b := false
		return &b
	default:
		return nil
	}
}

// AccuracyCheck is the live-snapshot view of a resolved accuracy comparison.
// It is only present on a record when the status is Hit or Miss.
type AccuracyCheck struct {
	YesterdaysPredictedRange string `json:"yesterdays_predicted_range"`
	TodaysActualPrice        string `json:"todays_actual_price"`
	Hit                      bool   `json:"hit"`
}

// PredictionRecord is the per-symbol cycle outcome. A record is either the
// success variant (price facts + forecast + accuracy) or the error variant
// (symbol + error description); Err discriminates the two.
type PredictionRecord struct {
	Symbol             string         `json:"symbol"`
	CurrentPrice       float64        `json:"current_price"`
	PriceChange        float64        `json:"price_change"`
	PriceChangePercent float64        `json:"price_change_percent"`
	Sentiment          string         `json:"sentiment"`
	Reasoning          string         `json:"reasoning"`
	PredictedRange     []*float64     `json:"predicted_range"`
	AccuracyCheck      *AccuracyCheck `json:"accuracy_check"`
	Err                string         `json:"error,omitempty"`
}

// IsError reports whether this is the error variant.
func (r PredictionRecord) IsError() bool { return r.Err != "" }

// Bounds returns the stored forecast bounds when the record carries a
// well-formed two-element range. Elements may still be nil.
func (r PredictionRecord) Bounds() (low, high *float64, ok bool) {
	if len(r.PredictedRange) != 2 {
		return nil, nil, false
	}
	return r.PredictedRange[0], r.PredictedRange[1], true
}

type liveRecord PredictionRecord

// MarshalJSON keeps the two wire variants distinct: error records serialize
// as {symbol, error} only, success records as the full shape with explicit
// nulls for predicted_range and accuracy_check.
func (r PredictionRecord) MarshalJSON() ([]byte, error) {
	if r.IsError() {
		return json.Marshal(struct {
			Symbol string `json:"symbol"`
			Err    string `json:"error"`
		}{Symbol: r.Symbol, Err: r.Err})
	}
	return json.Marshal(liveRecord(r))
}

// LiveSnapshot is the fully-overwritten current-state output: one record per
// configured symbol from the most recent run.
type LiveSnapshot struct {
	LastUpdated time.Time          `json:"last_updated"`
	Predictions []PredictionRecord `json:"predictions"`
}

// HistoryRow is one append-only ledger line. It is wider than the live
// record (split bounds, more precision) and is never read back by the
// pipeline itself.
type HistoryRow struct {
	Date                     string
	Symbol                   string
	ActualPrice              float64
	PriceChange              float64
	PriceChangePercent       float64
	Sentiment                string
	PredictedLow             *float64
	PredictedHigh            *float64
	YesterdaysPredictedRange string
	AccuracyHit              *bool
}
