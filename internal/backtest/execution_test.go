package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backtest_service/internal/models"
)

func TestSimulateFillCommission(t *testing.T) {
	// 0.001 commission on a 10000 notional is exactly 10 per side.
	f := simulateFill(orderBuy, 1, 10000, 0, 0.001)
	assert.Equal(t, 10000.0, f.Price)
	assert.InDelta(t, 10.0, f.Commission, 1e-9)
}

func TestSimulateFillSlippageDirection(t *testing.T) {
	buy := simulateFill(orderBuy, 2, 100, 0.001, 0)
	assert.InDelta(t, 100.1, buy.Price, 1e-9)

	sell := simulateFill(orderSell, 2, 100, 0.001, 0)
	assert.InDelta(t, 99.9, sell.Price, 1e-9)
}

func TestSimulateFillCommissionOnSlippedNotional(t *testing.T) {
	f := simulateFill(orderBuy, 2, 100, 0.001, 0.001)
	assert.InDelta(t, 0.2002, f.Commission, 1e-9)
}

func TestOrderDirectionForPositionSide(t *testing.T) {
	assert.Equal(t, orderBuy, entryOrder(models.SideLong))
	assert.Equal(t, orderSell, exitOrder(models.SideLong))
	assert.Equal(t, orderSell, entryOrder(models.SideShort))
	assert.Equal(t, orderBuy, exitOrder(models.SideShort))
}
