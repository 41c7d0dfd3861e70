package indicators

// Donchian channel over the previous period bars, current bar excluded, so a
// close beyond the channel is a genuine breakout. Warm-up is period+1.
//
// Signal: buy when the close breaks above the upper channel, sell when it
// breaks below the lower, strength = overshoot relative to channel width
// capped at 1. Inside the channel is neutral.
func Donchian(high, low, close []float64, period int) Series {
	warmup := period + 1
	if period <= 0 || len(close) < warmup {
		return Series{Warmup: warmup}
	}
	samples := make([]Sample, 0, len(close)-warmup+1)
	for i := period; i < len(close); i++ {
		upper, lower := high[i-period], low[i-period]
		for j := i - period + 1; j < i; j++ {
			if high[j] > upper {
				upper = high[j]
			}
			if low[j] < lower {
				lower = low[j]
			}
		}
		width := upper - lower
		smp := Sample{
			Value:  (upper + lower) / 2,
			Values: map[string]float64{"upper": upper, "middle": (upper + lower) / 2, "lower": lower},
			Signal: SignalNeutral,
		}
		if width > 0 {
			switch {
			case close[i] > upper:
				smp.Signal = SignalBuy
				smp.Strength = clamp01((close[i] - upper) / width)
			case close[i] < lower:
				smp.Signal = SignalSell
				smp.Strength = clamp01((lower - close[i]) / width)
			}
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}

// Keltner channel: middle = EMA(close, emaPeriod), bands at +/- mult * ATR.
// Warm-up is the later of the two inner warm-ups. Band logic mirrors
// Bollinger: a close below the lower band is a mean-reversion buy, above the
// upper a sell.
func Keltner(high, low, close []float64, emaPeriod, atrPeriod int, mult float64) Series {
	warmup := emaPeriod
	if atrPeriod+1 > warmup {
		warmup = atrPeriod + 1
	}
	if emaPeriod <= 0 || atrPeriod <= 0 || len(close) < warmup {
		return Series{Warmup: warmup}
	}
	ema := EMA(close, emaPeriod)
	atr := ATR(high, low, close, atrPeriod)

	samples := make([]Sample, 0, len(close)-warmup+1)
	for i := warmup - 1; i < len(close); i++ {
		mid, _ := ema.ValueAt(i)
		a, _ := atr.ValueAt(i)
		upper := mid + mult*a
		lower := mid - mult*a
		smp := Sample{
			Value:  mid,
			Values: map[string]float64{"upper": upper, "middle": mid, "lower": lower},
			Signal: SignalNeutral,
		}
		if half := mult * a; half > 0 {
			switch {
			case close[i] < lower:
				smp.Signal = SignalBuy
				smp.Strength = clamp01((lower - close[i]) / half)
			case close[i] > upper:
				smp.Signal = SignalSell
				smp.Strength = clamp01((close[i] - upper) / half)
			}
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}
