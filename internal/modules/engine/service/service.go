package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/opentracing/opentracing-go"

	"backtest_service/internal/backtest"
	"backtest_service/internal/history"
	"backtest_service/internal/models"
	"backtest_service/internal/modules/config"
	healthsvc "backtest_service/internal/modules/health/service"
	"backtest_service/internal/notify"
	"backtest_service/internal/store"
)

// defaultLookback is applied when a request names no date range and carries
// no candles.
const defaultLookback = 30 * 24 * time.Hour

// RunRequest is the wire request: a config plus an optional explicit candle
// slice. With candles present no data is fetched.
type RunRequest struct {
	models.BacktestConfig
	Candles []models.Candle `json:"candles,omitempty"`
}

// RunResponse wraps the engine result with the stored run id, 0 when
// persistence was unavailable.
type RunResponse struct {
	RunID int64 `json:"run_id,omitempty"`
	*models.BacktestResult
}

// Service is the run pipeline: resolve candles, simulate, persist, notify.
type Service struct {
	cfg      *config.Config
	engine   *backtest.Engine
	provider history.Provider
	runs     *store.RunStore
	notifier notify.Notifier
	state    *healthsvc.State
}

func New(
	cfg *config.Config,
	engine *backtest.Engine,
	provider history.Provider,
	runs *store.RunStore,
	notifier notify.Notifier,
	state *healthsvc.State,
) *Service {
	return &Service{
		cfg:      cfg,
		engine:   engine,
		provider: provider,
		runs:     runs,
		notifier: notifier,
		state:    state,
	}
}

func (s *Service) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "backtest.run")
	defer span.Finish()
	span.SetTag("symbol", req.Symbol)
	span.SetTag("strategy", string(req.Strategy))

	if s.cfg.Backtest.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Backtest.RunTimeout)
		defer cancel()
	}

	cfg := req.BacktestConfig
	cfg.ApplyDefaults()

	candles := req.Candles
	if len(candles) == 0 {
		var err error
		candles, err = s.fetch(ctx, &cfg)
		if err != nil {
			span.SetTag("error", true)
			return nil, err
		}
	}

	opts := []backtest.Option{}
	if every := s.cfg.Backtest.ProgressEvery; every > 0 {
		opts = append(opts, backtest.WithProgress(func(p backtest.Progress) {
			log.Printf("[ENGINE] %s %s bar %d/%d equity %.2f", cfg.Symbol, cfg.Timeframe, p.Bar, p.Total, p.Equity)
		}, every))
	}

	res, err := s.engine.Run(ctx, cfg, candles, opts...)
	if err != nil {
		span.SetTag("error", true)
		return nil, err
	}
	s.state.TouchRun(time.Now())

	// Persistence and notification never fail a finished run.
	var runID int64
	if s.runs != nil {
		if runID, err = s.runs.SaveRun(ctx, cfg, res); err != nil {
			log.Printf("[ENGINE] save run failed: %v", err)
			runID = 0
		}
	}
	if s.notifier != nil {
		s.notifier.Send(notify.RunSummary(cfg, res, runID))
	}

	return &RunResponse{RunID: runID, BacktestResult: res}, nil
}

// fetch resolves the candle window through the provider, defaulting the
// range to the trailing lookback when unset.
func (s *Service) fetch(ctx context.Context, cfg *models.BacktestConfig) ([]models.Candle, error) {
	if cfg.EndDate == 0 {
		cfg.EndDate = time.Now().UnixMilli()
	}
	if cfg.StartDate == 0 {
		cfg.StartDate = cfg.EndDate - defaultLookback.Milliseconds()
	}

	candles, err := s.provider.GetCandles(ctx, cfg.Symbol, cfg.Timeframe, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backtest.ErrUpstream, err)
	}
	return candles, nil
}

// GetRun proxies the store lookup.
func (s *Service) GetRun(ctx context.Context, id int64) (*models.BacktestResult, error) {
	if s.runs == nil {
		return nil, store.ErrNotFound
	}
	return s.runs.GetRun(ctx, id)
}

// ListRuns proxies the store listing.
func (s *Service) ListRuns(ctx context.Context, symbol string, limit int) ([]store.RunSummary, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRuns(ctx, symbol, limit)
}
