package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_service/internal/models"
	"backtest_service/internal/strategy"
)

const hourMs = int64(3_600_000)

func testConfig() models.BacktestConfig {
	return models.BacktestConfig{
		Symbol:    "BTC-USDT",
		Timeframe: "1h",
	}
}

// flatCandles yields n bars at a constant price with zero range.
func flatCandles(n int, price float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Timestamp: int64(i) * hourMs,
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return out
}

// trendCandles yields n bars rising by step per bar, zero range.
func trendCandles(n int, start, step float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		p := start + float64(i)*step
		out[i] = models.Candle{
			Timestamp: int64(i) * hourMs,
			Open:      p, High: p, Low: p, Close: p,
			Volume: 1000,
		}
	}
	return out
}

func TestRunFlatMarketProducesNoTrades(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	res, err := eng.Run(context.Background(), testConfig(), flatCandles(60, 100))
	require.NoError(t, err)

	assert.Zero(t, res.TotalTrades)
	assert.Empty(t, res.Trades)
	assert.Zero(t, res.TotalCommission)
	assert.Equal(t, 10000.0, res.FinalEquity)
	assert.Zero(t, res.TotalReturn)
	assert.Zero(t, res.SharpeRatio)
	// One equity sample per bar after warm-up: SMA(50) first resolves at
	// index 49, leaving 11 of the 60 bars.
	assert.Len(t, res.EquityCurve, 11)
	for _, pt := range res.EquityCurve {
		assert.Equal(t, 10000.0, pt.Value)
	}
}

func TestRunUptrendGoesLongAndProfits(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	res, err := eng.Run(context.Background(), testConfig(), trendCandles(100, 100, 1))
	require.NoError(t, err)

	require.NotEmpty(t, res.Trades)
	for _, tr := range res.Trades {
		assert.Equal(t, models.SideLong, tr.Side)
	}
	assert.Greater(t, res.TotalReturn, 0.0)
	assert.Greater(t, res.TotalReturnPct, 0.0)
	assert.Greater(t, res.WinRate, 0.0)
	assert.Greater(t, res.TotalCommission, 0.0)
}

func TestRunFinalEquityMatchesLedger(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	res, err := eng.Run(context.Background(), testConfig(), trendCandles(100, 100, 1))
	require.NoError(t, err)

	var pnl float64
	for _, tr := range res.Trades {
		pnl += tr.Pnl
	}
	assert.InDelta(t, res.InitialBalance+pnl-res.TotalCommission, res.FinalEquity, 1e-6)
}

func TestRunEmptyCandles(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	_, err := eng.Run(context.Background(), testConfig(), nil)
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, "DATA_UNAVAILABLE", ErrorCode(err))
}

func TestRunInsufficientHistory(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	_, err := eng.Run(context.Background(), testConfig(), flatCandles(30, 100))
	require.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Equal(t, "INSUFFICIENT_HISTORY", ErrorCode(err))
}

func TestRunUnknownStrategy(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())
	cfg := testConfig()
	cfg.Strategy = "martingale"

	_, err := eng.Run(context.Background(), cfg, flatCandles(60, 100))
	require.ErrorIs(t, err, ErrValidation)
}

func TestRunRejectsBadConfig(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	tests := []struct {
		name   string
		mutate func(*models.BacktestConfig)
	}{
		{"commission above one", func(c *models.BacktestConfig) { c.CommissionPct = 1.5 }},
		{"negative balance", func(c *models.BacktestConfig) { c.InitialBalance = -100 }},
		{"unknown timeframe", func(c *models.BacktestConfig) { c.Timeframe = "7m" }},
		{"inverted dates", func(c *models.BacktestConfig) { c.StartDate = 2000; c.EndDate = 1000 }},
		{"fast window at slow", func(c *models.BacktestConfig) { c.Params.FastWindow = 50; c.Params.SlowWindow = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := eng.Run(context.Background(), cfg, flatCandles(60, 100))
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, "VALIDATION_ERROR", ErrorCode(err))
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())
	candles := trendCandles(100, 100, 1)

	a, err := eng.Run(context.Background(), testConfig(), candles)
	require.NoError(t, err)
	b, err := eng.Run(context.Background(), testConfig(), candles)
	require.NoError(t, err)

	a.ExecutionTime, b.ExecutionTime = 0, 0
	assert.Equal(t, a, b)
}

func TestRunHonorsCancellation(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx, testConfig(), flatCandles(60, 100))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsUnorderedCandles(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())
	candles := flatCandles(60, 100)
	candles[10].Timestamp = candles[9].Timestamp

	_, err := eng.Run(context.Background(), testConfig(), candles)
	require.ErrorIs(t, err, ErrValidation)
}

func TestRunReportsProgress(t *testing.T) {
	eng := NewEngine(strategy.NewRegistry())

	var got []Progress
	_, err := eng.Run(context.Background(), testConfig(), flatCandles(60, 100),
		WithProgress(func(p Progress) { got = append(got, p) }, 5))
	require.NoError(t, err)

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, 11, last.Bar)
	assert.Equal(t, 11, last.Total)
	assert.Equal(t, 10000.0, last.Equity)
}
