package models

// BacktestResult is the aggregate outcome of one run. Field names follow the
// wire format of the backtesting microservice this replaces.
//
// Sign conventions: MaxDrawdown and MaxDrawdownPct are declines, so both are
// <= 0. ProfitFactor is 0 when the run has no losing trades. WinRate is a
// percentage, 0 when no trades closed.
type BacktestResult struct {
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"`
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	LargestWin     float64 `json:"largest_win"`
	LargestLoss    float64 `json:"largest_loss"`

	InitialBalance  float64 `json:"initial_capital"`
	FinalEquity     float64 `json:"final_equity"`
	TotalCommission float64 `json:"total_commission"`

	EquityCurve []EquityPoint `json:"equity_curve"`
	Trades      []Trade       `json:"trades"`

	// ExecutionTime is seconds spent inside the engine.
	ExecutionTime float64 `json:"execution_time"`
}
