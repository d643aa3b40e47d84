package marketdata

import (
	"errors"
	"fmt"

	"ai-stock-forecaster/internal/types"
)

// ErrInsufficientData signals a lookback that returned fewer than two bars,
// which leaves nothing to compute a delta from. Symbol-scoped, non-fatal.
var ErrInsufficientData = errors.New("insufficient market data")

// Observation derives today's price observation from the two most recent
// bars. Bars must be ascending by date.
func Observation(symbol string, bars []types.Bar) (types.PriceObservation, error) {
	if len(bars) < 2 {
		return types.PriceObservation{}, fmt.Errorf("%w: %d bars for %s, need at least 2", ErrInsufficientData, len(bars), symbol)
	}
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	return types.PriceObservation{
		Symbol:        symbol,
		CurrentPrice:  last.Close.InexactFloat64(),
		PreviousClose: prev.Close.InexactFloat64(),
		ObservedAt:    last.Date,
	}, nil
}
