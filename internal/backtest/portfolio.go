package backtest

import "backtest_service/internal/models"

// portfolio owns open positions and closed trades for one run and accumulates
// the equity curve. balance is realized equity: initial capital plus closed
// pnl minus every commission paid, so once everything is closed the final
// equity equals initial + sum(pnl) - sum(commission) by construction.
type portfolio struct {
	symbol          string
	balance         float64
	totalCommission float64
	peak            float64

	positions []*models.Position
	trades    []models.Trade
	equity    []models.EquityPoint
}

func newPortfolio(symbol string, initialBalance float64) *portfolio {
	return &portfolio{
		symbol:  symbol,
		balance: initialBalance,
		peak:    initialBalance,
	}
}

func (p *portfolio) openCount() int { return len(p.positions) }

// latest returns the most recently opened position, nil when flat.
func (p *portfolio) latest() *models.Position {
	if len(p.positions) == 0 {
		return nil
	}
	return p.positions[len(p.positions)-1]
}

func (p *portfolio) open(side models.Side, quantity, stopLoss, takeProfit float64, entry Fill, ts int64) {
	p.balance -= entry.Commission
	p.totalCommission += entry.Commission
	p.positions = append(p.positions, &models.Position{
		Symbol:     p.symbol,
		Side:       side,
		EntryPrice: entry.Price,
		Quantity:   quantity,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		OpenedAt:   ts,
	})
}

// close realizes a position into an immutable trade record.
func (p *portfolio) close(pos *models.Position, exit Fill, reason models.ExitReason, ts int64) {
	pnl := (exit.Price - pos.EntryPrice) * pos.Quantity
	if pos.Side == models.SideShort {
		pnl = -pnl
	}
	p.balance += pnl - exit.Commission
	p.totalCommission += exit.Commission

	pnlPct := 0.0
	if notional := pos.EntryPrice * pos.Quantity; notional != 0 {
		pnlPct = pnl / notional * 100
	}
	p.trades = append(p.trades, models.Trade{
		Symbol:     pos.Symbol,
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exit.Price,
		Quantity:   pos.Quantity,
		Pnl:        pnl,
		PnlPercent: pnlPct,
		OpenedAt:   pos.OpenedAt,
		ClosedAt:   ts,
		ExitReason: reason,
	})

	for i, cand := range p.positions {
		if cand == pos {
			p.positions = append(p.positions[:i], p.positions[i+1:]...)
			break
		}
	}
}

// applyStops closes every position whose stop-loss or take-profit lies inside
// the bar's high-low range. When both would trigger within one bar the
// stop-loss wins: the conservative tie-break.
func (p *portfolio) applyStops(bar models.Candle, exec func(side orderSide, qty, price float64) Fill) {
	open := make([]*models.Position, len(p.positions))
	copy(open, p.positions)

	for _, pos := range open {
		var exitPrice float64
		var reason models.ExitReason

		if pos.Side == models.SideLong {
			switch {
			case pos.StopLoss > 0 && bar.Low <= pos.StopLoss:
				exitPrice, reason = pos.StopLoss, models.ExitStopLoss
			case pos.TakeProfit > 0 && bar.High >= pos.TakeProfit:
				exitPrice, reason = pos.TakeProfit, models.ExitTakeProfit
			}
		} else {
			switch {
			case pos.StopLoss > 0 && bar.High >= pos.StopLoss:
				exitPrice, reason = pos.StopLoss, models.ExitStopLoss
			case pos.TakeProfit > 0 && bar.Low <= pos.TakeProfit:
				exitPrice, reason = pos.TakeProfit, models.ExitTakeProfit
			}
		}

		if reason != "" {
			p.close(pos, exec(exitOrder(pos.Side), pos.Quantity, exitPrice), reason, bar.Timestamp)
		}
	}
}

// closeAll force-closes everything still open, used at end of data and on
// signal reversals.
func (p *portfolio) closeAll(bar models.Candle, reason models.ExitReason, exec func(side orderSide, qty, price float64) Fill) {
	open := make([]*models.Position, len(p.positions))
	copy(open, p.positions)
	for _, pos := range open {
		p.close(pos, exec(exitOrder(pos.Side), pos.Quantity, bar.Close), reason, bar.Timestamp)
	}
}

// equityAt marks open positions to the given close price.
func (p *portfolio) equityAt(closePx float64) float64 {
	eq := p.balance
	for _, pos := range p.positions {
		unrealized := (closePx - pos.EntryPrice) * pos.Quantity
		if pos.Side == models.SideShort {
			unrealized = -unrealized
		}
		eq += unrealized
	}
	return eq
}

// mark appends the bar's equity sample and advances the peak.
func (p *portfolio) mark(bar models.Candle) models.EquityPoint {
	pt := models.EquityPoint{Timestamp: bar.Timestamp, Value: p.equityAt(bar.Close)}
	p.equity = append(p.equity, pt)
	if pt.Value > p.peak {
		p.peak = pt.Value
	}
	return pt
}
