package models

type ExitReason string

const (
	ExitStopLoss       ExitReason = "stop_loss"
	ExitTakeProfit     ExitReason = "take_profit"
	ExitSignalReversal ExitReason = "signal_reversal"
	ExitEndOfData      ExitReason = "end_of_data"
)

// Trade is the immutable record of a closed position. Pnl is gross of
// commission: commissions are accumulated separately in the result, so
// finalEquity == initialBalance + sum(pnl) - sum(commission).
type Trade struct {
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	EntryPrice float64    `json:"entryPrice"`
	ExitPrice  float64    `json:"exitPrice"`
	Quantity   float64    `json:"quantity"`
	Pnl        float64    `json:"pnl"`
	PnlPercent float64    `json:"pnlPercent"`
	OpenedAt   int64      `json:"entryTime"`
	ClosedAt   int64      `json:"exitTime"`
	ExitReason ExitReason `json:"exitReason"`
}
