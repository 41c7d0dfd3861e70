package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backtest_service/internal/models"
)

func curve(values ...float64) []models.EquityPoint {
	out := make([]models.EquityPoint, len(values))
	for i, v := range values {
		out[i] = models.EquityPoint{Timestamp: int64(i) * hourMs, Value: v}
	}
	return out
}

func TestSharpeZeroOnFlatCurve(t *testing.T) {
	assert.Zero(t, sharpeRatio(curve(100, 100, 100, 100), "1h"))
	assert.Zero(t, sharpeRatio(curve(100), "1h"))
	assert.Zero(t, sharpeRatio(nil, "1h"))
}

func TestSharpePositiveOnRisingCurve(t *testing.T) {
	assert.Greater(t, sharpeRatio(curve(100, 101, 101.5, 103, 103.2, 105), "1h"), 0.0)
}

func TestMaxDrawdownTracksWorstDecline(t *testing.T) {
	dd, ddPct := maxDrawdown(100, curve(110, 99, 121, 100))
	assert.InDelta(t, -21.0, dd, 1e-9)
	assert.InDelta(t, -21.0/121.0*100, ddPct, 1e-9)
}

func TestMaxDrawdownSeededWithInitialBalance(t *testing.T) {
	// A curve that only declines from the starting capital still registers.
	dd, ddPct := maxDrawdown(100, curve(95, 90))
	assert.InDelta(t, -10.0, dd, 1e-9)
	assert.InDelta(t, -10.0, ddPct, 1e-9)
}

func TestMaxDrawdownZeroWhenMonotonic(t *testing.T) {
	dd, ddPct := maxDrawdown(100, curve(101, 105, 110))
	assert.Zero(t, dd)
	assert.Zero(t, ddPct)
}

func TestTradeStats(t *testing.T) {
	res := &models.BacktestResult{}
	tradeStats(res, []models.Trade{
		{Pnl: 10}, {Pnl: -5}, {Pnl: 15},
	})

	assert.Equal(t, 2, res.WinningTrades)
	assert.Equal(t, 1, res.LosingTrades)
	assert.InDelta(t, 2.0/3.0*100, res.WinRate, 1e-9)
	assert.InDelta(t, 5.0, res.ProfitFactor, 1e-9)
	assert.InDelta(t, 12.5, res.AvgWin, 1e-9)
	assert.InDelta(t, -5.0, res.AvgLoss, 1e-9)
	assert.InDelta(t, 15.0, res.LargestWin, 1e-9)
	assert.InDelta(t, -5.0, res.LargestLoss, 1e-9)
}

func TestTradeStatsNoLosersLeavesProfitFactorZero(t *testing.T) {
	res := &models.BacktestResult{}
	tradeStats(res, []models.Trade{{Pnl: 10}, {Pnl: 20}})

	assert.Zero(t, res.ProfitFactor)
	assert.Equal(t, 100.0, res.WinRate)
}
