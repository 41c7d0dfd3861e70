package indicators

// RSI is the Wilder-smoothed relative strength index. The first period price
// changes seed avgGain/avgLoss with a plain mean, later bars use
// avg = (avg*(period-1) + current) / period. When avgLoss is zero RSI is 100,
// never NaN or Inf.
//
// Signal band: buy below 30 with strength rising linearly to 1 at RSI 0,
// sell above 70 with strength rising linearly to 1 at RSI 100.
func RSI(values []float64, period int) Series {
	warmup := period + 1
	if period <= 0 || len(values) < warmup {
		return Series{Warmup: warmup}
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	samples := make([]Sample, 0, len(values)-warmup+1)
	samples = append(samples, rsiSample(avgGain, avgLoss))

	for i := warmup; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		samples = append(samples, rsiSample(avgGain, avgLoss))
	}
	return Series{Warmup: warmup, Samples: samples}
}

func rsiSample(avgGain, avgLoss float64) Sample {
	var rsi float64
	if avgLoss == 0 {
		rsi = 100
	} else {
		rsi = 100 - 100/(1+avgGain/avgLoss)
	}
	s := Sample{Value: rsi, Signal: SignalNeutral}
	switch {
	case rsi < 30:
		s.Signal = SignalBuy
		s.Strength = clamp01((30 - rsi) / 30)
	case rsi > 70:
		s.Signal = SignalSell
		s.Strength = clamp01((rsi - 70) / 30)
	}
	return s
}
