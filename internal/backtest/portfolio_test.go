package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_service/internal/models"
)

// rawExec fills at the requested price with no slippage or commission.
func rawExec(_ orderSide, _, price float64) Fill { return Fill{Price: price} }

func TestApplyStopsPrefersStopLossOnAmbiguousBar(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	pf.open(models.SideLong, 1, 98, 104, Fill{Price: 100}, 0)

	// The bar spans both levels; without intra-bar data the loss is assumed
	// to come first.
	pf.applyStops(models.Candle{Timestamp: hourMs, Open: 100, High: 105, Low: 97, Close: 101}, rawExec)

	require.Len(t, pf.trades, 1)
	tr := pf.trades[0]
	assert.Equal(t, models.ExitStopLoss, tr.ExitReason)
	assert.Equal(t, 98.0, tr.ExitPrice)
	assert.Equal(t, -2.0, tr.Pnl)
	assert.Zero(t, pf.openCount())
}

func TestApplyStopsShortSide(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	pf.open(models.SideShort, 2, 102, 96, Fill{Price: 100}, 0)

	tests := []struct {
		name   string
		bar    models.Candle
		reason models.ExitReason
		pnl    float64
	}{
		{"stop above entry", models.Candle{High: 103, Low: 99, Close: 100}, models.ExitStopLoss, -4},
		{"take profit below entry", models.Candle{High: 101, Low: 95, Close: 96}, models.ExitTakeProfit, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := newPortfolio("BTC-USDT", 10000)
			pf.open(models.SideShort, 2, 102, 96, Fill{Price: 100}, 0)

			pf.applyStops(tt.bar, rawExec)

			require.Len(t, pf.trades, 1)
			assert.Equal(t, tt.reason, pf.trades[0].ExitReason)
			assert.Equal(t, tt.pnl, pf.trades[0].Pnl)
		})
	}
}

func TestApplyStopsLeavesUntouchedPositions(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	pf.open(models.SideLong, 1, 90, 120, Fill{Price: 100}, 0)

	pf.applyStops(models.Candle{High: 102, Low: 99, Close: 101}, rawExec)

	assert.Empty(t, pf.trades)
	assert.Equal(t, 1, pf.openCount())
}

func TestCloseAllAtEndOfData(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	pf.open(models.SideLong, 1, 95, 120, Fill{Price: 100}, 0)
	pf.open(models.SideLong, 2, 98, 125, Fill{Price: 103}, hourMs)

	pf.closeAll(models.Candle{Timestamp: 2 * hourMs, Close: 110}, models.ExitEndOfData, rawExec)

	require.Len(t, pf.trades, 2)
	assert.Zero(t, pf.openCount())
	for _, tr := range pf.trades {
		assert.Equal(t, models.ExitEndOfData, tr.ExitReason)
		assert.Equal(t, int64(2*hourMs), tr.ClosedAt)
	}
	// 10 on the first, 14 on the second.
	assert.InDelta(t, 10024.0, pf.balance, 1e-9)
}

func TestEquityMarksOpenPositionsToClose(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	pf.open(models.SideLong, 2, 95, 120, Fill{Price: 100, Commission: 0.2}, 0)

	assert.InDelta(t, 10009.8, pf.equityAt(105), 1e-9)

	pt := pf.mark(models.Candle{Timestamp: hourMs, Close: 105})
	assert.InDelta(t, 10009.8, pt.Value, 1e-9)
	assert.InDelta(t, 10009.8, pf.peak, 1e-9)
}

func TestCommissionFlowsThroughBalance(t *testing.T) {
	pf := newPortfolio("BTC-USDT", 10000)
	// 0.001 of a 10000 notional is 10 per side.
	pf.open(models.SideLong, 1, 97, 110, Fill{Price: 10000, Commission: 10}, 0)
	pf.close(pf.latest(), Fill{Price: 10000, Commission: 10}, models.ExitSignalReversal, hourMs)

	require.Len(t, pf.trades, 1)
	assert.Zero(t, pf.trades[0].Pnl)
	assert.InDelta(t, 20.0, pf.totalCommission, 1e-9)
	assert.InDelta(t, 9980.0, pf.balance, 1e-9)
}
