package interfaces

import (
	"context"

	"ai-stock-forecaster/internal/types"
)

// Forecaster turns recent price history and news into a structured forecast
// for the next session.
type Forecaster interface {
	Analyze(ctx context.Context, symbol string, bars []types.Bar, newsText string) (types.ForecastRange, error)
}
