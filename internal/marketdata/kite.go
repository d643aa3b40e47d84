package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/types"
)

// KiteSource fetches daily candles from the Zerodha Kite Connect API.
// Instrument tokens come from configuration; there is no live instrument
// dump lookup in this pipeline.
type KiteSource struct {
	kc     *kiteconnect.Client
	tokens map[string]int
}

var _ interfaces.MarketDataSource = (*KiteSource)(nil)

// KiteParams configures a KiteSource.
type KiteParams struct {
	APIKey      string
	AccessToken string
	Tokens      map[string]int // symbol -> instrument token
}

// NewKiteSource creates a Kite Connect backed market data source.
func NewKiteSource(p KiteParams) *KiteSource {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	return &KiteSource{kc: kc, tokens: p.Tokens}
}

// DailyBars returns daily candles for symbol, ascending by date.
func (k *KiteSource) DailyBars(_ context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	token, ok := k.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("no kite instrument token configured for %s", symbol)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -lookbackDays)

	candles, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical data for %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, types.Bar{
			Date:   c.Date.Time,
			Open:   decimal.NewFromFloat(c.Open),
			High:   decimal.NewFromFloat(c.High),
			Low:    decimal.NewFromFloat(c.Low),
			Close:  decimal.NewFromFloat(c.Close),
			Volume: int64(c.Volume),
		})
	}

	if len(bars) < 2 {
		return nil, fmt.Errorf("%w: %d bars for %s from kite", ErrInsufficientData, len(bars), symbol)
	}
	return bars, nil
}
