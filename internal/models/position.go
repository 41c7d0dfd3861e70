package models

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Position is an open position. Owned by the portfolio tracker while open.
type Position struct {
	Symbol     string
	Side       Side
	EntryPrice float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	OpenedAt   int64 // epoch ms
}

// Notional at entry price.
func (p Position) Notional() float64 { return p.EntryPrice * p.Quantity }
