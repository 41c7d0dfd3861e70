package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_service/internal/models"
)

func defaultParams() models.StrategyParams {
	return models.StrategyParams{
		FastWindow:    20,
		SlowWindow:    50,
		RSIWindow:     14,
		RSIOversold:   30,
		RSIOverbought: 70,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		BBWindow:      20,
		BBStdDev:      2,
	}
}

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Timestamp: int64(i) * 3_600_000,
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return out
}

func trendCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRegistryKnowsAllBuiltins(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.Known(), 5)

	for _, typ := range []models.StrategyType{
		models.StrategyMACrossover,
		models.StrategyRSI,
		models.StrategyMACD,
		models.StrategyTrendFollow,
		models.StrategyMeanReversion,
	} {
		s, err := r.Create(typ, defaultParams())
		require.NoError(t, err)
		assert.Equal(t, string(typ), s.Name())
	}

	_, err := r.Create("martingale", defaultParams())
	assert.Error(t, err)
}

func TestWarmupIsFirstEvaluableIndex(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		typ    models.StrategyType
		warmup int
	}{
		{models.StrategyMACrossover, 49},
		{models.StrategyRSI, 14},
		{models.StrategyMACD, 34},
		{models.StrategyTrendFollow, 49},
		{models.StrategyMeanReversion, 19},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s, err := r.Create(tt.typ, defaultParams())
			require.NoError(t, err)
			assert.Equal(t, tt.warmup, s.Warmup())

			// Every series must resolve at the first evaluable index, so
			// Evaluate never holds purely for missing data there.
			candles := candlesFromCloses(trendCloses(60, 100, 0.1))
			snap := s.Compute(candles)
			for name, series := range snap.Series {
				_, ok := series.At(s.Warmup())
				assert.True(t, ok, "series %q unresolved at warmup", name)
			}
		})
	}
}

func TestMACrossoverEntersOnEstablishedTrend(t *testing.T) {
	s := newMACrossover(defaultParams())
	candles := candlesFromCloses(trendCloses(60, 100, 1))
	snap := s.Compute(candles)

	d := s.Evaluate(snap, s.Warmup(), nil)
	assert.Equal(t, EnterLong, d.Action)
	assert.Greater(t, d.Strength, 0.0)

	// Already long: no duplicate entry.
	open := &models.Position{Side: models.SideLong}
	d = s.Evaluate(snap, s.Warmup(), open)
	assert.Equal(t, Hold, d.Action)
}

func TestMACrossoverExitsWhenTrendFlips(t *testing.T) {
	s := newMACrossover(defaultParams())
	// Rise then collapse, so the fast average ends below the slow one.
	closes := append(trendCloses(55, 100, 1), trendCloses(45, 154, -3)...)
	candles := candlesFromCloses(closes)
	snap := s.Compute(candles)

	open := &models.Position{Side: models.SideLong}
	d := s.Evaluate(snap, len(candles)-1, open)
	assert.Equal(t, Exit, d.Action)

	// Flat in a downtrend: stay out.
	d = s.Evaluate(snap, len(candles)-1, nil)
	assert.Equal(t, Hold, d.Action)
}

func TestRSIThresholdRoundTrip(t *testing.T) {
	s := newRSIThreshold(defaultParams())
	// Steady decline pins RSI at 0.
	falling := candlesFromCloses(trendCloses(30, 200, -1))
	snap := s.Compute(falling)

	d := s.Evaluate(snap, 20, nil)
	assert.Equal(t, EnterLong, d.Action)
	assert.Equal(t, 1.0, d.Strength)

	// Steady rise pins RSI at 100: exit a long, no fresh entry.
	rising := candlesFromCloses(trendCloses(30, 100, 1))
	snap = s.Compute(rising)

	open := &models.Position{Side: models.SideLong}
	d = s.Evaluate(snap, 20, open)
	assert.Equal(t, Exit, d.Action)

	d = s.Evaluate(snap, 20, nil)
	assert.Equal(t, Hold, d.Action)
}

func TestMACDCrossEntersOnHistogramFlip(t *testing.T) {
	s := newMACDCross(defaultParams())
	// Long decline then sharp recovery forces the histogram through zero.
	closes := append(trendCloses(60, 200, -1), trendCloses(30, 141, 2)...)
	candles := candlesFromCloses(closes)
	snap := s.Compute(candles)

	var entered bool
	for i := s.Warmup() + 1; i < len(candles); i++ {
		if d := s.Evaluate(snap, i, nil); d.Action == EnterLong {
			entered = true
			break
		}
	}
	assert.True(t, entered, "no long entry across the recovery")
}

func TestTrendFollowingExitsOnAlignmentFlip(t *testing.T) {
	s := newTrendFollowing(defaultParams())
	closes := append(trendCloses(60, 100, 1), trendCloses(40, 159, -2)...)
	candles := candlesFromCloses(closes)
	snap := s.Compute(candles)

	open := &models.Position{Side: models.SideLong}
	d := s.Evaluate(snap, len(candles)-1, open)
	assert.Equal(t, Exit, d.Action)
}

func TestMeanReversionFadesBandExcursion(t *testing.T) {
	s := newMeanReversion(defaultParams())
	// Quiet range then a sharp drop through the lower band.
	closes := make([]float64, 0, 30)
	for i := 0; i < 25; i++ {
		closes = append(closes, 100+float64(i%2))
	}
	closes = append(closes, 97, 94, 91, 88, 85)
	candles := candlesFromCloses(closes)
	snap := s.Compute(candles)

	d := s.Evaluate(snap, len(candles)-1, nil)
	assert.Equal(t, EnterLong, d.Action)
	assert.Greater(t, d.Strength, 0.0)
}

func TestMeanReversionExitsAtMiddleBand(t *testing.T) {
	s := newMeanReversion(defaultParams())
	// Flat window: close sits exactly on the middle band.
	candles := candlesFromCloses(trendCloses(30, 100, 0))
	snap := s.Compute(candles)

	open := &models.Position{Side: models.SideLong}
	d := s.Evaluate(snap, len(candles)-1, open)
	assert.Equal(t, Exit, d.Action)
}
