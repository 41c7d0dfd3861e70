// Package indicators implements the technical indicators the strategy engines
// consume. Every indicator is a pure batch function over aligned OHLCV slices
// returning a Series whose samples are aligned to the tail of the input:
// len(Samples) == len(input) - Warmup + 1, and Samples[k] belongs to candle
// index Warmup-1+k. Inputs shorter than the warm-up produce an empty series,
// never an error and never zero-filled samples.
package indicators

type SignalKind string

const (
	SignalBuy     SignalKind = "buy"
	SignalSell    SignalKind = "sell"
	SignalNeutral SignalKind = "neutral"
)

// Sample is one per-bar indicator observation. Multi-line indicators (MACD,
// Bollinger, Stochastic, channels) publish their lines in Values and keep the
// primary line in Value.
type Sample struct {
	Value    float64
	Values   map[string]float64
	Signal   SignalKind
	Strength float64 // [0,1]
}

// Series is a finite indicator output aligned to the tail of its input.
type Series struct {
	Warmup  int
	Samples []Sample
}

func (s Series) Len() int { return len(s.Samples) }

// At returns the sample for candle index i, or false while i is inside the
// warm-up region.
func (s Series) At(i int) (Sample, bool) {
	k := i - s.Warmup + 1
	if k < 0 || k >= len(s.Samples) {
		return Sample{}, false
	}
	return s.Samples[k], true
}

// ValueAt is At restricted to the primary value.
func (s Series) ValueAt(i int) (float64, bool) {
	smp, ok := s.At(i)
	if !ok {
		return 0, false
	}
	return smp.Value, true
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

func neutral(v float64) Sample {
	return Sample{Value: v, Signal: SignalNeutral}
}
