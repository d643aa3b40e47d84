package forecastobs

import (
	"context"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/trace"
	"ai-stock-forecaster/internal/types"
)

// observableForecaster wraps a Forecaster with observability (logging & tracing)
type observableForecaster struct {
	forecaster interfaces.Forecaster
}

// Compile-time interface check
var _ interfaces.Forecaster = (*observableForecaster)(nil)

// Wrap wraps a forecaster with observability middleware
func Wrap(forecaster interfaces.Forecaster) interfaces.Forecaster {
	return &observableForecaster{forecaster: forecaster}
}

func (of *observableForecaster) Analyze(ctx context.Context, symbol string, bars []types.Bar, newsText string) (types.ForecastRange, error) {
	ctx, span := trace.StartSpan(ctx, "forecast.Analyze")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting forecast",
		"symbol", symbol,
		"bars", len(bars),
	)

	fc, err := of.forecaster.Analyze(ctx, symbol, bars, newsText)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get forecast", err, "symbol", symbol)
		return types.ForecastRange{}, err
	}

	logger.Forecast(ctx, symbol, fc.Sentiment, fc.PredictedLow, fc.PredictedHigh)
	return fc, nil
}
