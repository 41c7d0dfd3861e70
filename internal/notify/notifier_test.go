package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backtest_service/internal/models"
)

func TestRunSummaryFormatting(t *testing.T) {
	cfg := models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "1h", Strategy: models.StrategyMACrossover}
	res := &models.BacktestResult{
		TotalReturn:    523.4,
		TotalReturnPct: 5.23,
		TotalTrades:    12,
		WinRate:        58.3,
		ProfitFactor:   1.8,
		MaxDrawdownPct: -3.1,
		SharpeRatio:    1.42,
	}

	msg := RunSummary(cfg, res, 42)
	assert.Contains(t, msg, "#42")
	assert.Contains(t, msg, "BTC-USDT")
	assert.Contains(t, msg, "+5.23%")
	assert.Contains(t, msg, "trades: 12")

	// No stored id: plain header.
	msg = RunSummary(cfg, res, 0)
	assert.NotContains(t, msg, "#")
}
