package backtest

import "backtest_service/internal/models"

type orderSide int

const (
	orderBuy orderSide = iota
	orderSell
)

// entryOrder / exitOrder translate a position side into the order direction
// that opens or closes it.
func entryOrder(side models.Side) orderSide {
	if side == models.SideLong {
		return orderBuy
	}
	return orderSell
}

func exitOrder(side models.Side) orderSide {
	if side == models.SideLong {
		return orderSell
	}
	return orderBuy
}

// Fill is a complete simulated execution: no partial fills, no latency, one
// fill per accepted order on the bar that produced it.
type Fill struct {
	Price      float64
	Commission float64
}

// simulateFill applies deterministic slippage against the taker and charges
// commission on the slipped notional. Buys fill at price*(1+slippage), sells
// at price*(1-slippage).
func simulateFill(side orderSide, quantity, marketPrice, slippagePct, commissionRate float64) Fill {
	px := marketPrice
	if side == orderBuy {
		px *= 1 + slippagePct
	} else {
		px *= 1 - slippagePct
	}
	return Fill{
		Price:      px,
		Commission: commissionRate * px * quantity,
	}
}
