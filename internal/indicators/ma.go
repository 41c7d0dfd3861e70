package indicators

// SMA is the arithmetic mean over a trailing window. First valid value at
// candle index period-1. Emits neutral signals: moving averages are inputs to
// strategies, not signal generators by themselves.
func SMA(values []float64, period int) Series {
	if period <= 0 || len(values) < period {
		return Series{Warmup: period}
	}
	samples := make([]Sample, 0, len(values)-period+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			samples = append(samples, neutral(sum/float64(period)))
		}
	}
	return Series{Warmup: period, Samples: samples}
}

// EMA is seeded with the SMA of the first period values, then
// ema[i] = price[i]*k + ema[i-1]*(1-k) with k = 2/(period+1).
func EMA(values []float64, period int) Series {
	if period <= 0 || len(values) < period {
		return Series{Warmup: period}
	}
	k := 2.0 / (float64(period) + 1)
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)

	samples := make([]Sample, 0, len(values)-period+1)
	samples = append(samples, neutral(ema))
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		samples = append(samples, neutral(ema))
	}
	return Series{Warmup: period, Samples: samples}
}

// emaOver runs the EMA recurrence over an already-derived series and returns
// raw values, for indicators that smooth their own output (MACD signal line,
// Chaikin volatility).
func emaOver(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / (float64(period) + 1)
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, ema)
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}
