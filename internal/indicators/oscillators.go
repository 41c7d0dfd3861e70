package indicators

import "math"

// WilliamsR is (highestHigh - close) / (highestHigh - lowestLow) * -100 over
// a trailing window, ranging [-100, 0]. Flat window falls back to -50.
//
// Signal band: buy below -80 (strength to 1 at -100), sell above -20
// (strength to 1 at 0).
func WilliamsR(high, low, close []float64, period int) Series {
	if period <= 0 || len(close) < period {
		return Series{Warmup: period}
	}
	samples := make([]Sample, 0, len(close)-period+1)
	for i := period - 1; i < len(close); i++ {
		hh, ll := high[i], low[i]
		for j := i - period + 1; j < i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		r := -50.0
		if hh > ll {
			r = (hh - close[i]) / (hh - ll) * -100
		}
		smp := Sample{Value: r, Signal: SignalNeutral}
		switch {
		case r < -80:
			smp.Signal = SignalBuy
			smp.Strength = clamp01((-80 - r) / 20)
		case r > -20:
			smp.Signal = SignalSell
			smp.Strength = clamp01((r + 20) / 20)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: period, Samples: samples}
}

// ROC is the percentage change of close over period bars. Warm-up period+1.
// Momentum band: buy above +5% with strength to 1 at +20%, sell below -5%
// with strength to 1 at -20%.
func ROC(values []float64, period int) Series {
	warmup := period + 1
	if period <= 0 || len(values) < warmup {
		return Series{Warmup: warmup}
	}
	samples := make([]Sample, 0, len(values)-warmup+1)
	for i := period; i < len(values); i++ {
		prev := values[i-period]
		v := 0.0
		if prev != 0 {
			v = (values[i] - prev) / prev * 100
		}
		smp := Sample{Value: v, Signal: SignalNeutral}
		switch {
		case v > 5:
			smp.Signal = SignalBuy
			smp.Strength = clamp01((v - 5) / 15)
		case v < -5:
			smp.Signal = SignalSell
			smp.Strength = clamp01((-v - 5) / 15)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}

// CCI is (typicalPrice - SMA(typicalPrice)) / (0.015 * meanDeviation). A zero
// mean deviation (flat window) yields 0.
//
// Signal band: buy below -100 with strength to 1 at -200, sell above +100
// with strength to 1 at +200.
func CCI(high, low, close []float64, period int) Series {
	if period <= 0 || len(close) < period {
		return Series{Warmup: period}
	}
	tp := make([]float64, len(close))
	for i := range close {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}
	samples := make([]Sample, 0, len(close)-period+1)
	for i := period - 1; i < len(close); i++ {
		window := tp[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		dev := 0.0
		for _, v := range window {
			dev += math.Abs(v - mean)
		}
		dev /= float64(period)

		v := 0.0
		if dev != 0 {
			v = (tp[i] - mean) / (0.015 * dev)
		}
		smp := Sample{Value: v, Signal: SignalNeutral}
		switch {
		case v < -100:
			smp.Signal = SignalBuy
			smp.Strength = clamp01((-100 - v) / 100)
		case v > 100:
			smp.Signal = SignalSell
			smp.Strength = clamp01((v - 100) / 100)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: period, Samples: samples}
}

// MFI is the money flow index: RSI applied to typical-price money flow.
// Warm-up period+1. Zero negative flow over the window yields 100, mirroring
// the RSI fallback.
//
// Signal band: buy below 20 (strength to 1 at 0), sell above 80 (strength to
// 1 at 100).
func MFI(high, low, close, volume []float64, period int) Series {
	warmup := period + 1
	if period <= 0 || len(close) < warmup {
		return Series{Warmup: warmup}
	}
	tp := make([]float64, len(close))
	for i := range close {
		tp[i] = (high[i] + low[i] + close[i]) / 3
	}

	samples := make([]Sample, 0, len(close)-warmup+1)
	for i := period; i < len(close); i++ {
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			flow := tp[j] * volume[j]
			if tp[j] > tp[j-1] {
				pos += flow
			} else if tp[j] < tp[j-1] {
				neg += flow
			}
		}
		var v float64
		if neg == 0 {
			v = 100
		} else {
			v = 100 - 100/(1+pos/neg)
		}
		smp := Sample{Value: v, Signal: SignalNeutral}
		switch {
		case v < 20:
			smp.Signal = SignalBuy
			smp.Strength = clamp01((20 - v) / 20)
		case v > 80:
			smp.Signal = SignalSell
			smp.Strength = clamp01((v - 80) / 20)
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: warmup, Samples: samples}
}
