package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

// maCrossover is the classic long-only fast/slow SMA strategy: long while the
// fast average sits above the slow one, flat otherwise. Level-based rather
// than edge-triggered, so a series that starts already trending still enters
// on its first evaluable bar.
type maCrossover struct {
	fast, slow int
}

func newMACrossover(p models.StrategyParams) *maCrossover {
	return &maCrossover{fast: p.FastWindow, slow: p.SlowWindow}
}

func (s *maCrossover) Name() string { return "ma_crossover" }

// First evaluable index = the slow SMA's first sample.
func (s *maCrossover) Warmup() int { return s.slow - 1 }

func (s *maCrossover) Compute(candles []models.Candle) *Snapshot {
	cl := closes(candles)
	return &Snapshot{Series: map[string]indicators.Series{
		"fast": indicators.SMA(cl, s.fast),
		"slow": indicators.SMA(cl, s.slow),
	}}
}

func (s *maCrossover) Evaluate(snap *Snapshot, i int, open *models.Position) Decision {
	f, ok1 := snap.Series["fast"].ValueAt(i)
	sl, ok2 := snap.Series["slow"].ValueAt(i)
	if !ok1 || !ok2 {
		return hold
	}

	switch {
	case f > sl && open == nil:
		strength := 0.5
		if sl != 0 {
			strength = clamp01((f - sl) / sl * 100)
		}
		return Decision{
			Action:   EnterLong,
			Strength: strength,
			Reason:   fmt.Sprintf("fast SMA(%d) above slow SMA(%d)", s.fast, s.slow),
		}
	case f < sl && open != nil && open.Side == models.SideLong:
		return Decision{Action: Exit, Reason: "fast SMA fell below slow SMA"}
	}
	return hold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
