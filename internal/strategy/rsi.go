package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

// rsiThreshold mirrors the classic oscillator play: long while RSI is under
// the oversold level, exit once it recovers past the overbought level.
type rsiThreshold struct {
	window     int
	oversold   float64
	overbought float64
}

func newRSIThreshold(p models.StrategyParams) *rsiThreshold {
	return &rsiThreshold{
		window:     p.RSIWindow,
		oversold:   p.RSIOversold,
		overbought: p.RSIOverbought,
	}
}

func (s *rsiThreshold) Name() string { return "rsi" }

// RSI produces its first sample at index window (one change per bar plus the
// seed window).
func (s *rsiThreshold) Warmup() int { return s.window }

func (s *rsiThreshold) Compute(candles []models.Candle) *Snapshot {
	return &Snapshot{Series: map[string]indicators.Series{
		"rsi": indicators.RSI(closes(candles), s.window),
	}}
}

func (s *rsiThreshold) Evaluate(snap *Snapshot, i int, open *models.Position) Decision {
	smp, ok := snap.at("rsi", i)
	if !ok {
		return hold
	}

	switch {
	case smp.Value < s.oversold && open == nil:
		return Decision{
			Action:   EnterLong,
			Strength: smp.Strength,
			Reason:   fmt.Sprintf("RSI(%d)=%.1f below oversold %.0f", s.window, smp.Value, s.oversold),
		}
	case smp.Value > s.overbought && open != nil && open.Side == models.SideLong:
		return Decision{Action: Exit, Reason: fmt.Sprintf("RSI=%.1f above overbought %.0f", smp.Value, s.overbought)}
	}
	return hold
}
