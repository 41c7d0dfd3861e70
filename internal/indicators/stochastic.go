package indicators

// Stochastic oscillator: %K = (close - lowestLow) / (highestHigh - lowestLow)
// * 100 over kPeriod, %D = SMA(%K, dPeriod). Warm-up is kPeriod + dPeriod - 1.
// A zero high-low range inside the window (flat market) yields %K = 50, the
// documented degenerate fallback.
//
// Signal band: buy when %K < 20 (strength to 1 at 0), sell when %K > 80
// (strength to 1 at 100).
func Stochastic(high, low, close []float64, kPeriod, dPeriod int) Series {
	warmup := kPeriod + dPeriod - 1
	if kPeriod <= 0 || dPeriod <= 0 || len(close) < warmup {
		return Series{Warmup: warmup}
	}

	ks := make([]float64, 0, len(close)-kPeriod+1)
	for i := kPeriod - 1; i < len(close); i++ {
		hh, ll := high[i], low[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		k := 50.0
		if hh > ll {
			k = (close[i] - ll) / (hh - ll) * 100
		}
		ks = append(ks, k)
	}

	ds := SMA(ks, dPeriod)
	samples := make([]Sample, 0, len(ds.Samples))
	for j, d := range ds.Samples {
		k := ks[dPeriod-1+j]
		smp := Sample{
			Value:  k,
			Values: map[string]float64{"k": k, "d": d.Value},
			Signal: SignalNeutral,
		}
		switch {
		case k < 20:
			smp.Signal = SignalBuy
			smp.Strength = clamp01((20 - k) / 20)
		case k > 80:
			smp.Signal = SignalSell
			smp.Strength = clamp01((k - 80) / 20)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}
