package indicators

import "math"

// Bollinger computes middle = SMA(period) with upper/lower bands at
// middle +/- stdDev*mult, using the population standard deviation over the
// same window.
//
// Signal: buy when the close sits below the lower band, sell above the upper,
// strength = distance beyond the band relative to the half band width, capped
// at 1. A degenerate zero-width band (flat window) is neutral.
func Bollinger(values []float64, period int, mult float64) Series {
	if period <= 0 || len(values) < period {
		return Series{Warmup: period}
	}
	samples := make([]Sample, 0, len(values)-period+1)
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		variance := 0.0
		for _, v := range window {
			d := v - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))

		upper := mean + std*mult
		lower := mean - std*mult
		smp := Sample{
			Value:  mean,
			Values: map[string]float64{"upper": upper, "middle": mean, "lower": lower},
			Signal: SignalNeutral,
		}
		half := std * mult
		close := values[i]
		if half > 0 {
			switch {
			case close < lower:
				smp.Signal = SignalBuy
				smp.Strength = clamp01((lower - close) / half)
			case close > upper:
				smp.Signal = SignalSell
				smp.Strength = clamp01((close - upper) / half)
			}
		}
		samples = append(samples, smp)
	}
	return Series{Warmup: period, Samples: samples}
}
