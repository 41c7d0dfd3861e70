package models

type StrategyType string

const (
	StrategyMACrossover   StrategyType = "ma_crossover"
	StrategyRSI           StrategyType = "rsi"
	StrategyMACD          StrategyType = "macd"
	StrategyTrendFollow   StrategyType = "trend_following"
	StrategyMeanReversion StrategyType = "mean_reversion"
)

// StrategyParams are the indicator parameters a strategy variant reads.
// Zero values are replaced by defaults in ApplyDefaults.
type StrategyParams struct {
	FastWindow    int     `json:"fast_window" yaml:"fast_window" mapstructure:"fast_window"`
	SlowWindow    int     `json:"slow_window" yaml:"slow_window" mapstructure:"slow_window"`
	RSIWindow     int     `json:"rsi_window" yaml:"rsi_window" mapstructure:"rsi_window"`
	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold" mapstructure:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought" mapstructure:"rsi_overbought"`
	MACDFast      int     `json:"macd_fast" yaml:"macd_fast" mapstructure:"macd_fast"`
	MACDSlow      int     `json:"macd_slow" yaml:"macd_slow" mapstructure:"macd_slow"`
	MACDSignal    int     `json:"macd_signal" yaml:"macd_signal" mapstructure:"macd_signal"`
	BBWindow      int     `json:"bb_window" yaml:"bb_window" mapstructure:"bb_window"`
	BBStdDev      float64 `json:"bb_std_dev" yaml:"bb_std_dev" mapstructure:"bb_std_dev"`

	// MinStrength gates entries below this signal strength.
	MinStrength float64 `json:"min_strength" yaml:"min_strength" mapstructure:"min_strength"`
}

// RiskParams bound what the risk manager will accept.
type RiskParams struct {
	// RiskPerTrade is the fraction of current equity risked per trade, e.g.
	// 0.01 => 1%.
	RiskPerTrade float64 `json:"risk_per_trade" yaml:"risk_per_trade" mapstructure:"risk_per_trade"`
	// StopLossPct / TakeProfitPct are fractions of entry price, e.g. 0.02.
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct" mapstructure:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct" mapstructure:"take_profit_pct"`
	MaxPositions  int     `json:"max_positions" yaml:"max_positions" mapstructure:"max_positions"`
	// MaxDrawdownPct is the kill-switch: once running drawdown from peak
	// equity exceeds this fraction, no new entries for the rest of the run.
	MaxDrawdownPct float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct" mapstructure:"max_drawdown_pct"`
}

// BacktestConfig is everything one run needs besides the candles.
type BacktestConfig struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	StartDate int64  `json:"start_date" yaml:"start_date"` // epoch ms
	EndDate   int64  `json:"end_date" yaml:"end_date"`     // epoch ms

	InitialBalance float64 `json:"initial_capital" yaml:"initial_capital"`
	// CommissionPct is a fraction of notional charged per fill, both sides.
	CommissionPct float64 `json:"commission_pct" yaml:"commission_pct"`
	// SlippagePct shifts the fill price against the taker, e.g. 0.0005.
	SlippagePct float64 `json:"slippage_pct" yaml:"slippage_pct"`

	Strategy StrategyType   `json:"strategy_type" yaml:"strategy_type"`
	Params   StrategyParams `json:"strategy_params" yaml:"strategy_params"`
	Risk     RiskParams     `json:"risk_params" yaml:"risk_params"`
}

// ApplyDefaults fills unset fields with the same defaults the original
// service used.
func (c *BacktestConfig) ApplyDefaults() {
	if c.InitialBalance == 0 {
		c.InitialBalance = 10000
	}
	if c.CommissionPct == 0 {
		c.CommissionPct = 0.001
	}
	if c.Strategy == "" {
		c.Strategy = StrategyMACrossover
	}
	p := &c.Params
	if p.FastWindow == 0 {
		p.FastWindow = 20
	}
	if p.SlowWindow == 0 {
		p.SlowWindow = 50
	}
	if p.RSIWindow == 0 {
		p.RSIWindow = 14
	}
	if p.RSIOversold == 0 {
		p.RSIOversold = 30
	}
	if p.RSIOverbought == 0 {
		p.RSIOverbought = 70
	}
	if p.MACDFast == 0 {
		p.MACDFast = 12
	}
	if p.MACDSlow == 0 {
		p.MACDSlow = 26
	}
	if p.MACDSignal == 0 {
		p.MACDSignal = 9
	}
	if p.BBWindow == 0 {
		p.BBWindow = 20
	}
	if p.BBStdDev == 0 {
		p.BBStdDev = 2
	}
	r := &c.Risk
	if r.RiskPerTrade == 0 {
		r.RiskPerTrade = 0.01
	}
	if r.StopLossPct == 0 {
		r.StopLossPct = 0.02
	}
	if r.TakeProfitPct == 0 {
		r.TakeProfitPct = 0.04
	}
	if r.MaxPositions == 0 {
		r.MaxPositions = 3
	}
	if r.MaxDrawdownPct == 0 {
		r.MaxDrawdownPct = 0.5
	}
}
