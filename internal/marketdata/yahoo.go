package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/types"
)

// YahooSource fetches daily bars from Yahoo Finance.
type YahooSource struct{}

var _ interfaces.MarketDataSource = (*YahooSource)(nil)

// NewYahooSource creates a Yahoo Finance backed market data source.
func NewYahooSource() *YahooSource {
	return &YahooSource{}
}

// DailyBars returns up to lookbackDays of daily bars for symbol, ascending
// by date.
func (y *YahooSource) DailyBars(_ context.Context, symbol string, lookbackDays int) ([]types.Bar, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []types.Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, types.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart fetch for %s: %w", symbol, err)
	}

	// Yahoo returns bars in order, but the contract is ascending by date.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if len(bars) < 2 {
		return nil, fmt.Errorf("%w: %d bars for %s from yahoo", ErrInsufficientData, len(bars), symbol)
	}
	return bars, nil
}
