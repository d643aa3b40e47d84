package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ai-stock-forecaster/internal/config"
	"ai-stock-forecaster/internal/forecast"
	"ai-stock-forecaster/internal/forecast/forecastobs"
	"ai-stock-forecaster/internal/interfaces"
	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/marketdata"
	"ai-stock-forecaster/internal/marketdata/marketdataobs"
	"ai-stock-forecaster/internal/news"
	"ai-stock-forecaster/internal/persist"
	"ai-stock-forecaster/internal/pipeline"
	"ai-stock-forecaster/internal/scheduler"
	"ai-stock-forecaster/internal/trace"
)

type app struct {
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	recorder interfaces.Recorder
}

// bootstrap wires the whole pipeline from configuration and environment.
// It fails fast on anything the run loop cannot recover from, most
// importantly a missing GEMINI_API_KEY.
func bootstrap(ctx context.Context, configPath string) (*app, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		logger.Warn(ctx, "Tracing init failed - continuing without tracing", "error", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set: cannot run without a model key")
	}

	market, err := buildMarketSource(cfg)
	if err != nil {
		return nil, err
	}

	forecaster := forecastobs.Wrap(forecast.NewGemini(geminiKey, cfg))
	newsSvc := news.FromConfig(ctx, cfg)
	store := persist.NewStore(cfg.SnapshotFile, cfg.HistoryFile)

	var recorder interfaces.Recorder = persist.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		rec, err := persist.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite mirror %s: %w", cfg.Database.SQLitePath, err)
		}
		recorder = rec
	}

	pipe := pipeline.New(cfg, market, newsSvc, forecaster, store, recorder)
	return &app{cfg: cfg, pipe: pipe, recorder: recorder}, nil
}

func buildMarketSource(cfg *config.Config) (interfaces.MarketDataSource, error) {
	switch cfg.DataSource {
	case "KITE":
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey == "" || accessToken == "" {
			return nil, errors.New("KITE_API_KEY and KITE_ACCESS_TOKEN must be set when data_source is 'KITE'")
		}
		return marketdataobs.Wrap(marketdata.NewKiteSource(marketdata.KiteParams{
			APIKey:      apiKey,
			AccessToken: accessToken,
			Tokens:      cfg.Kite.Tokens,
		})), nil
	default:
		return marketdataobs.Wrap(marketdata.NewYahooSource()), nil
	}
}

func (a *app) close(ctx context.Context) {
	if err := a.recorder.Close(); err != nil {
		logger.Warn(ctx, "Recorder close failed", "error", err)
	}
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Trace shutdown failed", "error", err)
	}
}

func runOnce(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	return a.pipe.Run(ctx)
}

func runScheduled(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if a.cfg.Schedule.Cron == "" {
		return errors.New("schedule.cron not set in config")
	}

	sched := scheduler.New(ctx, a.pipe)
	if err := sched.Register(a.cfg.Schedule.Cron); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()
	logger.Info(ctx, "Forecaster running on schedule", "cron", a.cfg.Schedule.Cron)

	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down")
	return nil
}
