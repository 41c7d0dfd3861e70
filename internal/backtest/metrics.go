package backtest

import (
	"math"
	"time"

	"backtest_service/internal/models"
)

// buildResult folds the finished portfolio into the wire-level result.
func buildResult(cfg models.BacktestConfig, pf *portfolio, elapsed time.Duration) *models.BacktestResult {
	res := &models.BacktestResult{
		InitialBalance:  cfg.InitialBalance,
		FinalEquity:     cfg.InitialBalance,
		TotalCommission: pf.totalCommission,
		EquityCurve:     pf.equity,
		Trades:          pf.trades,
		TotalTrades:     len(pf.trades),
		ExecutionTime:   elapsed.Seconds(),
	}
	if len(pf.equity) > 0 {
		res.FinalEquity = pf.equity[len(pf.equity)-1].Value
	}
	res.TotalReturn = res.FinalEquity - cfg.InitialBalance
	res.TotalReturnPct = res.TotalReturn / cfg.InitialBalance * 100

	res.SharpeRatio = sharpeRatio(pf.equity, cfg.Timeframe)
	res.MaxDrawdown, res.MaxDrawdownPct = maxDrawdown(cfg.InitialBalance, pf.equity)
	tradeStats(res, pf.trades)
	return res
}

// sharpeRatio annualizes mean per-bar return over its population standard
// deviation. Zero when the curve is too short or perfectly flat.
func sharpeRatio(curve []models.EquityPoint, timeframe string) float64 {
	if len(curve) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev == 0 {
			return 0
		}
		returns = append(returns, curve[i].Value/prev-1)
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(models.BarsPerYear(timeframe))
}

// maxDrawdown walks the curve tracking the running peak, which is seeded with
// the initial balance so a curve that only declines still registers. Both
// returns are <= 0.
func maxDrawdown(initial float64, curve []models.EquityPoint) (dd, ddPct float64) {
	peak := initial
	for _, pt := range curve {
		if pt.Value > peak {
			peak = pt.Value
		}
		drop := pt.Value - peak
		if drop < dd {
			dd = drop
			if peak > 0 {
				ddPct = drop / peak * 100
			}
		}
	}
	return dd, ddPct
}

func tradeStats(res *models.BacktestResult, trades []models.Trade) {
	var grossWin, grossLoss float64
	for _, t := range trades {
		switch {
		case t.Pnl > 0:
			res.WinningTrades++
			grossWin += t.Pnl
			if t.Pnl > res.LargestWin {
				res.LargestWin = t.Pnl
			}
		case t.Pnl < 0:
			res.LosingTrades++
			grossLoss += -t.Pnl
			if t.Pnl < res.LargestLoss {
				res.LargestLoss = t.Pnl
			}
		}
	}
	if len(trades) > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(len(trades)) * 100
	}
	if res.WinningTrades > 0 {
		res.AvgWin = grossWin / float64(res.WinningTrades)
	}
	if res.LosingTrades > 0 {
		res.AvgLoss = -grossLoss / float64(res.LosingTrades)
	}
	if grossLoss > 0 {
		res.ProfitFactor = grossWin / grossLoss
	}
}
