package pipeline

import (
	"context"
	"time"

	"ai-stock-forecaster/internal/accuracy"
	"ai-stock-forecaster/internal/config"
	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/marketdata"
	"ai-stock-forecaster/internal/news"
	"ai-stock-forecaster/internal/persist"
	"ai-stock-forecaster/internal/record"
	"ai-stock-forecaster/internal/trace"
	"ai-stock-forecaster/internal/types"
)

// Pipeline runs one full forecast cycle: for every configured symbol it
// fetches history and news, asks the model for tomorrow's range, checks the
// prior run's forecast against today's price, and persists the results.
type Pipeline struct {
	cfg        *config.Config
	market     interfaces.MarketDataSource
	news       *news.Service
	forecaster interfaces.Forecaster
	store      *persist.Store
	recorder   interfaces.Recorder

	now   func() time.Time
	sleep func(time.Duration)
}

func New(cfg *config.Config, market interfaces.MarketDataSource, newsSvc *news.Service, forecaster interfaces.Forecaster, store *persist.Store, recorder interfaces.Recorder) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		market:     market,
		news:       newsSvc,
		forecaster: forecaster,
		store:      store,
		recorder:   recorder,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Run executes one cycle. A symbol failure is contained to that symbol (it
// becomes an error-variant record); only a failed snapshot write fails the
// run, because without a snapshot the next run has no priors to grade.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	logger.Info(ctx, "Forecast cycle starting", "symbols", len(p.cfg.Symbols))

	prior := p.store.LoadPriorSnapshot(ctx)

	snap := &types.LiveSnapshot{}
	for i, symbol := range p.cfg.Symbols {
		// Pace outbound model calls between symbols, not before the first.
		if i > 0 && p.cfg.PacingSeconds > 0 {
			p.sleep(time.Duration(p.cfg.PacingSeconds) * time.Second)
		}
		snap.Predictions = append(snap.Predictions, p.processSymbol(ctx, symbol, prior[symbol]))
	}

	snap.LastUpdated = p.now().UTC()
	if err := p.store.WriteSnapshot(snap); err != nil {
		logger.ErrorWithErr(ctx, "Snapshot write failed", err)
		return err
	}

	logger.Info(ctx, "Forecast cycle complete", "symbols", len(snap.Predictions))
	return nil
}

func (p *Pipeline) processSymbol(ctx context.Context, symbol string, prior *types.PredictionRecord) types.PredictionRecord {
	ctx, span := trace.StartSpan(ctx, "pipeline.processSymbol")
	defer span.End()

	logger.Info(ctx, "Processing symbol", "symbol", symbol)

	bars, err := p.market.DailyBars(ctx, symbol, p.cfg.LookbackDays)
	if err != nil {
		logger.ErrorWithErr(ctx, "Market data fetch failed", err, "symbol", symbol)
		return record.ErrorRecord(symbol, err)
	}

	obs, err := marketdata.Observation(symbol, bars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price observation failed", err, "symbol", symbol)
		return record.ErrorRecord(symbol, err)
	}

	newsText := p.news.HeadlineText(ctx, symbol)

	fc, err := p.forecaster.Analyze(ctx, symbol, bars, newsText)
	if err != nil {
		logger.ErrorWithErr(ctx, "Forecast failed", err, "symbol", symbol)
		return record.ErrorRecord(symbol, err)
	}

	// Grade yesterday's forecast against today's close before storing
	// today's forecast for tomorrow.
	acc := accuracy.Evaluate(prior, obs.CurrentPrice)
	logger.Accuracy(ctx, symbol, acc.Status.String(), acc.Display, obs.CurrentPrice)

	rec, row, err := record.Build(obs, fc, acc, p.now())
	if err != nil {
		logger.ErrorWithErr(ctx, "Record build failed", err, "symbol", symbol)
		return record.ErrorRecord(symbol, err)
	}

	if err := p.store.AppendHistoryRow(&row); err != nil {
		logger.ErrorWithErr(ctx, "History append failed", err, "symbol", symbol)
		return record.ErrorRecord(symbol, err)
	}

	// The analytics mirror is best-effort; the ledger is the source of truth.
	if err := p.recorder.RecordPrediction(&row); err != nil {
		logger.Warn(ctx, "Analytics mirror write failed", "symbol", symbol, "error", err)
	}

	return rec
}
