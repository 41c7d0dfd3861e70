package indicators

import "math"

// trueRange for candle i (i >= 1): max(high-low, |high-prevClose|,
// |low-prevClose|).
func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if hc := math.Abs(high - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// ATR is the SMA of the true range. True range needs a previous close, so the
// warm-up is period+1 candles. Volatility measure, always neutral.
func ATR(high, low, close []float64, period int) Series {
	warmup := period + 1
	if period <= 0 || len(close) < warmup {
		return Series{Warmup: warmup}
	}
	tr := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		tr = append(tr, trueRange(high[i], low[i], close[i-1]))
	}
	inner := SMA(tr, period)
	return Series{Warmup: warmup, Samples: inner.Samples}
}

// ATRPercent is ATR expressed as a percentage of the bar close, comparable
// across symbols. Neutral.
func ATRPercent(high, low, close []float64, period int) Series {
	atr := ATR(high, low, close, period)
	samples := make([]Sample, 0, len(atr.Samples))
	for k, smp := range atr.Samples {
		c := close[atr.Warmup-1+k]
		v := 0.0
		if c != 0 {
			v = smp.Value / c * 100
		}
		samples = append(samples, neutral(v))
	}
	return Series{Warmup: atr.Warmup, Samples: samples}
}

// ChaikinVolatility smooths the high-low range with an EMA, then takes the
// rate of change of that smoothed range over rocPeriod bars. Warm-up is
// emaPeriod + rocPeriod. Neutral: it qualifies other signals rather than
// emitting its own.
func ChaikinVolatility(high, low []float64, emaPeriod, rocPeriod int) Series {
	warmup := emaPeriod + rocPeriod
	if emaPeriod <= 0 || rocPeriod <= 0 || len(high) < warmup {
		return Series{Warmup: warmup}
	}
	ranges := make([]float64, len(high))
	for i := range high {
		ranges[i] = high[i] - low[i]
	}
	smoothed := emaOver(ranges, emaPeriod)

	samples := make([]Sample, 0, len(smoothed)-rocPeriod)
	for j := rocPeriod; j < len(smoothed); j++ {
		prev := smoothed[j-rocPeriod]
		v := 0.0
		if prev != 0 {
			v = (smoothed[j] - prev) / prev * 100
		}
		samples = append(samples, neutral(v))
	}
	return Series{Warmup: warmup, Samples: samples}
}
