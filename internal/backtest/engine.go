package backtest

import (
	"context"
	"time"

	"backtest_service/internal/models"
	"backtest_service/internal/strategy"
)

// Engine replays candle history bar by bar against a strategy and produces a
// deterministic result: same config and candles always yield the same output.
type Engine struct {
	registry *strategy.Registry
}

func NewEngine(registry *strategy.Registry) *Engine {
	return &Engine{registry: registry}
}

// Run executes one backtest. The candles must already cover the requested
// range; Run never fetches data itself.
func (e *Engine) Run(ctx context.Context, cfg models.BacktestConfig, candles []models.Candle, opts ...Option) (*models.BacktestResult, error) {
	started := time.Now()

	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}

	cfg.ApplyDefaults()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, errorf(ErrDataUnavailable, "no candles for %s %s", cfg.Symbol, cfg.Timeframe)
	}
	if err := validateCandles(candles); err != nil {
		return nil, err
	}

	strat, err := e.registry.Create(cfg.Strategy, cfg.Params)
	if err != nil {
		return nil, errorf(ErrValidation, "%v", err)
	}
	warmup := strat.Warmup()
	if len(candles) <= warmup {
		return nil, errorf(ErrInsufficientHistory,
			"strategy %s needs more than %d candles, got %d", strat.Name(), warmup, len(candles))
	}

	snap := strat.Compute(candles)

	pf := newPortfolio(cfg.Symbol, cfg.InitialBalance)
	rm := newRiskManager(cfg.Risk)
	exec := func(side orderSide, qty, price float64) Fill {
		return simulateFill(side, qty, price, cfg.SlippagePct, cfg.CommissionPct)
	}

	last := len(candles) - 1
	for i := warmup; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		bar := candles[i]

		pf.applyStops(bar, exec)

		decision := strat.Evaluate(snap, i, pf.latest())
		e.apply(decision, bar, cfg, pf, rm, exec)

		if i == last && pf.openCount() > 0 {
			pf.closeAll(bar, models.ExitEndOfData, exec)
		}

		pt := pf.mark(bar)
		if ro.progress != nil && ((i-warmup+1)%ro.progressEvery == 0 || i == last) {
			ro.progress(Progress{Bar: i - warmup + 1, Total: len(candles) - warmup, Equity: pt.Value})
		}
	}

	res := buildResult(cfg, pf, time.Since(started))
	return res, nil
}

// apply turns a strategy decision into portfolio changes for the current bar.
// Entries and discretionary exits fill at the bar close.
func (e *Engine) apply(d strategy.Decision, bar models.Candle, cfg models.BacktestConfig, pf *portfolio, rm *riskManager, exec func(orderSide, float64, float64) Fill) {
	switch d.Action {
	case strategy.Exit:
		pf.closeAll(bar, models.ExitSignalReversal, exec)

	case strategy.EnterLong, strategy.EnterShort:
		side := models.SideLong
		if d.Action == strategy.EnterShort {
			side = models.SideShort
		}
		// An opposing position is flattened before the new entry is sized.
		if open := pf.latest(); open != nil && open.Side != side {
			pf.closeAll(bar, models.ExitSignalReversal, exec)
		}
		if d.Strength < cfg.Params.MinStrength {
			return
		}
		rd := rm.evaluate(side, bar.Close, pf.equityAt(bar.Close), pf.peak, pf.openCount())
		if !rd.Accepted {
			return
		}
		entry := exec(entryOrder(side), rd.Quantity, bar.Close)
		pf.open(side, rd.Quantity, rd.StopLoss, rd.TakeProfit, entry, bar.Timestamp)
	}
}
