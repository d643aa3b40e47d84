package interfaces

import (
	"context"

	"ai-stock-forecaster/internal/types"
)

// MarketDataSource supplies daily OHLC history for a symbol over a lookback
// window, ascending by date.
type MarketDataSource interface {
	DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]types.Bar, error)
}
