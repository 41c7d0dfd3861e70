package indicators

import "math"

// MACD is EMA(fast) - EMA(slow) aligned on the slow EMA's tail, with a signal
// line that is an EMA of the MACD line and a histogram of their difference.
// Warm-up is slow + signal - 1 candles.
//
// Signal: buy while the histogram is positive, sell while negative, with
// strength |histogram| relative to |macd| capped at 1. A zero histogram is
// neutral.
func MACD(values []float64, fast, slow, signal int) Series {
	warmup := slow + signal - 1
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow || len(values) < warmup {
		return Series{Warmup: warmup}
	}

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	macd := make([]float64, 0, len(values)-slow+1)
	for i := slow - 1; i < len(values); i++ {
		f, _ := fastEMA.ValueAt(i)
		s, _ := slowEMA.ValueAt(i)
		macd = append(macd, f-s)
	}

	sig := emaOver(macd, signal)
	samples := make([]Sample, 0, len(sig))
	for j, sv := range sig {
		m := macd[signal-1+j]
		hist := m - sv
		smp := Sample{
			Value:  m,
			Values: map[string]float64{"macd": m, "signal": sv, "histogram": hist},
			Signal: SignalNeutral,
		}
		if hist != 0 {
			if hist > 0 {
				smp.Signal = SignalBuy
			} else {
				smp.Signal = SignalSell
			}
			denom := math.Abs(m)
			if denom == 0 {
				denom = math.Abs(hist)
			}
			smp.Strength = clamp01(math.Abs(hist) / denom)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}
