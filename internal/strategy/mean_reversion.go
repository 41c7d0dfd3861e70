package strategy

import (
	"fmt"

	"backtest_service/internal/indicators"
	"backtest_service/internal/models"
)

// meanReversion fades Bollinger band excursions confirmed by RSI: long below
// the lower band while RSI is oversold, short above the upper band while RSI
// is overbought, closing out once price reverts to the middle band.
type meanReversion struct {
	bbWindow   int
	bbStdDev   float64
	rsiWindow  int
	oversold   float64
	overbought float64
}

func newMeanReversion(p models.StrategyParams) *meanReversion {
	return &meanReversion{
		bbWindow:   p.BBWindow,
		bbStdDev:   p.BBStdDev,
		rsiWindow:  p.RSIWindow,
		oversold:   p.RSIOversold,
		overbought: p.RSIOverbought,
	}
}

func (s *meanReversion) Name() string { return "mean_reversion" }

func (s *meanReversion) Warmup() int {
	return maxInt(s.bbWindow-1, s.rsiWindow)
}

func (s *meanReversion) Compute(candles []models.Candle) *Snapshot {
	cl := closes(candles)
	return &Snapshot{Series: map[string]indicators.Series{
		"bb":  indicators.Bollinger(cl, s.bbWindow, s.bbStdDev),
		"rsi": indicators.RSI(cl, s.rsiWindow),
		// close as a 1-period SMA so Evaluate stays a pure snapshot reader
		"close": indicators.SMA(cl, 1),
	}}
}

func (s *meanReversion) Evaluate(snap *Snapshot, i int, open *models.Position) Decision {
	bb, ok1 := snap.at("bb", i)
	rsi, ok2 := snap.at("rsi", i)
	if !ok1 || !ok2 {
		return hold
	}
	middle := bb.Values["middle"]
	close, _ := snap.Series["close"].ValueAt(i)

	if open != nil {
		if open.Side == models.SideLong && close >= middle {
			return Decision{Action: Exit, Reason: "price reverted to middle band"}
		}
		if open.Side == models.SideShort && close <= middle {
			return Decision{Action: Exit, Reason: "price reverted to middle band"}
		}
		return hold
	}

	switch {
	case bb.Signal == indicators.SignalBuy && rsi.Value < s.oversold:
		return Decision{
			Action:   EnterLong,
			Strength: clamp01((bb.Strength + rsi.Strength) / 2),
			Reason:   fmt.Sprintf("close below lower band, RSI=%.1f oversold", rsi.Value),
		}
	case bb.Signal == indicators.SignalSell && rsi.Value > s.overbought:
		return Decision{
			Action:   EnterShort,
			Strength: clamp01((bb.Strength + rsi.Strength) / 2),
			Reason:   fmt.Sprintf("close above upper band, RSI=%.1f overbought", rsi.Value),
		}
	}
	return hold
}
