package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

// macdCross trades MACD/signal-line crossings in both directions: long on an
// upward histogram flip, short on a downward one, exiting any opposite
// position first.
type macdCross struct {
	fast, slow, signal int
}

func newMACDCross(p models.StrategyParams) *macdCross {
	return &macdCross{fast: p.MACDFast, slow: p.MACDSlow, signal: p.MACDSignal}
}

func (s *macdCross) Name() string { return "macd" }

// First sample lands at slow+signal-2; the flip test needs one bar before it.
func (s *macdCross) Warmup() int { return s.slow + s.signal - 1 }

func (s *macdCross) Compute(candles []models.Candle) *Snapshot {
	return &Snapshot{Series: map[string]indicators.Series{
		"macd": indicators.MACD(closes(candles), s.fast, s.slow, s.signal),
	}}
}

func (s *macdCross) Evaluate(snap *Snapshot, i int, open *models.Position) Decision {
	cur, ok1 := snap.at("macd", i)
	prev, ok2 := snap.at("macd", i-1)
	if !ok1 || !ok2 {
		return hold
	}
	hist := cur.Values["histogram"]
	prevHist := prev.Values["histogram"]

	flippedUp := hist > 0 && prevHist <= 0
	flippedDown := hist < 0 && prevHist >= 0

	switch {
	case flippedUp && open != nil && open.Side == models.SideShort:
		return Decision{Action: Exit, Reason: "MACD crossed above signal line"}
	case flippedUp && open == nil:
		return Decision{
			Action:   EnterLong,
			Strength: cur.Strength,
			Reason:   fmt.Sprintf("MACD(%d,%d,%d) crossed above signal line", s.fast, s.slow, s.signal),
		}
	case flippedDown && open != nil && open.Side == models.SideLong:
		return Decision{Action: Exit, Reason: "MACD crossed below signal line"}
	case flippedDown && open == nil:
		return Decision{
			Action:   EnterShort,
			Strength: cur.Strength,
			Reason:   fmt.Sprintf("MACD(%d,%d,%d) crossed below signal line", s.fast, s.slow, s.signal),
		}
	}
	return hold
}
