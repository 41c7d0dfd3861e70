package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

// trendFollowing pairs an EMA alignment filter with an RSI pullback trigger:
// long when the fast EMA is above the slow one and RSI dips under the
// oversold level, short on the mirrored setup. Exits when the EMA alignment
// flips against the position.
type trendFollowing struct {
	fast, slow int
	rsiWindow  int
	oversold   float64
	overbought float64
}

func newTrendFollowing(p models.StrategyParams) *trendFollowing {
	return &trendFollowing{
		fast:       p.FastWindow,
		slow:       p.SlowWindow,
		rsiWindow:  p.RSIWindow,
		oversold:   p.RSIOversold,
		overbought: p.RSIOverbought,
	}
}

func (s *trendFollowing) Name() string { return "trend_following" }

func (s *trendFollowing) Warmup() int {
	return maxInt(s.slow-1, s.rsiWindow)
}

func (s *trendFollowing) Compute(candles []models.Candle) *Snapshot {
	cl := closes(candles)
	return &Snapshot{Series: map[string]indicators.Series{
		"fast": indicators.EMA(cl, s.fast),
		"slow": indicators.EMA(cl, s.slow),
		"rsi":  indicators.RSI(cl, s.rsiWindow),
	}}
}

func (s *trendFollowing) Evaluate(snap *Snapshot, i int, open *models.Position) Decision {
	f, ok1 := snap.Series["fast"].ValueAt(i)
	sl, ok2 := snap.Series["slow"].ValueAt(i)
	rsi, ok3 := snap.at("rsi", i)
	if !ok1 || !ok2 || !ok3 {
		return hold
	}

	upTrend := f > sl
	downTrend := f < sl

	if open != nil {
		// trend flipped against the position
		if (open.Side == models.SideLong && downTrend) || (open.Side == models.SideShort && upTrend) {
			return Decision{Action: Exit, Reason: "EMA alignment flipped against position"}
		}
		return hold
	}

	switch {
	case upTrend && rsi.Value < s.oversold:
		return Decision{
			Action:   EnterLong,
			Strength: rsi.Strength,
			Reason:   fmt.Sprintf("uptrend EMA(%d)>EMA(%d), RSI=%.1f pullback", s.fast, s.slow, rsi.Value),
		}
	case downTrend && rsi.Value > s.overbought:
		return Decision{
			Action:   EnterShort,
			Strength: rsi.Strength,
			Reason:   fmt.Sprintf("downtrend EMA(%d)<EMA(%d), RSI=%.1f rally", s.fast, s.slow, rsi.Value),
		}
	}
	return hold
}
