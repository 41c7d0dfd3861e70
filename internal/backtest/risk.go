package backtest

import (
	"fmt"
	"math"

	"backtest_service/internal/models"
)

const (
	// qtyStep is the quantity rounding step a broker would accept.
	qtyStep = 1e-4
	// minNotional is the smallest viable order, in quote currency.
	minNotional = 10.0
)

// RiskDecision is the outcome of a proposed entry.
type RiskDecision struct {
	Accepted   bool
	Reason     string
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
}

func rejected(format string, args ...any) RiskDecision {
	return RiskDecision{Reason: fmt.Sprintf(format, args...)}
}

// riskManager sizes entries against equity at risk, the same way the live
// sizing path works: quantity such that a move to the stop loses exactly
// riskPerTrade of equity. The drawdown kill-switch latches for the rest of
// the run once tripped.
type riskManager struct {
	cfg     models.RiskParams
	tripped bool
}

func newRiskManager(cfg models.RiskParams) *riskManager {
	return &riskManager{cfg: cfg}
}

// evaluate applies the rules in order: position limit, kill-switch, sizing
// with minimum notional, stop/take levels. A rejection skips the entry for
// this bar and nothing else.
func (r *riskManager) evaluate(side models.Side, entryPrice, equity, peakEquity float64, openPositions int) RiskDecision {
	if openPositions >= r.cfg.MaxPositions {
		return rejected("open positions at limit (%d)", r.cfg.MaxPositions)
	}

	if !r.tripped && peakEquity > 0 {
		drawdown := (peakEquity - equity) / peakEquity
		if drawdown >= r.cfg.MaxDrawdownPct {
			r.tripped = true
		}
	}
	if r.tripped {
		return rejected("max drawdown kill-switch active")
	}

	if entryPrice <= 0 {
		return rejected("entry price %.8f not positive", entryPrice)
	}

	rawQty := (equity * r.cfg.RiskPerTrade) / (entryPrice * r.cfg.StopLossPct)
	qty := math.Floor(rawQty/qtyStep+1e-9) * qtyStep
	if qty <= 0 || qty*entryPrice < minNotional {
		return rejected("notional %.2f below minimum %.2f", qty*entryPrice, minNotional)
	}

	var sl, tp float64
	if side == models.SideLong {
		sl = entryPrice * (1 - r.cfg.StopLossPct)
		tp = entryPrice * (1 + r.cfg.TakeProfitPct)
	} else {
		sl = entryPrice * (1 + r.cfg.StopLossPct)
		tp = entryPrice * (1 - r.cfg.TakeProfitPct)
	}

	return RiskDecision{
		Accepted:   true,
		Quantity:   qty,
		StopLoss:   sl,
		TakeProfit: tp,
	}
}
