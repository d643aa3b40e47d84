package marketdataobs

import (
	"context"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/trace"
	"ai-stock-forecaster/internal/types"
)

// observableSource wraps a MarketDataSource with logging and tracing
type observableSource struct {
	source interfaces.MarketDataSource
}

// Compile-time interface check
var _ interfaces.MarketDataSource = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(source interfaces.MarketDataSource) interfaces.MarketDataSource {
	return &observableSource{source: source}
}

func (os *observableSource) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.DailyBars")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching daily bars",
		"symbol", symbol,
		"lookback_days", lookbackDays,
	)

	bars, err := os.source.DailyBars(ctx, symbol, lookbackDays)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch daily bars", err, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Daily bars fetched",
		"symbol", symbol,
		"count", len(bars),
	)
	return bars, nil
}
