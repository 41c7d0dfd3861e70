package backtest

import (
	"fmt"
	"time"

	"backtest_service/internal/models"
)

const maxDateRange = 90 * 24 * time.Hour

// ValidateConfig enforces the request bounds the host is supposed to check,
// so a misbehaving host cannot push a degenerate run into the engine.
// Date bounds are only checked when a date range is set: runs over an
// explicit candle slice carry no range.
func ValidateConfig(cfg *models.BacktestConfig) error {
	if cfg.Symbol == "" {
		return fmt.Errorf("%w: symbol is empty", ErrValidation)
	}
	if cfg.Timeframe == "" {
		return fmt.Errorf("%w: timeframe is empty", ErrValidation)
	}
	if models.TimeframeDuration(cfg.Timeframe) <= 0 {
		return fmt.Errorf("%w: unknown timeframe %q", ErrValidation, cfg.Timeframe)
	}
	if cfg.StartDate != 0 || cfg.EndDate != 0 {
		if cfg.StartDate >= cfg.EndDate {
			return fmt.Errorf("%w: start date must precede end date", ErrValidation)
		}
		if time.Duration(cfg.EndDate-cfg.StartDate)*time.Millisecond > maxDateRange {
			return fmt.Errorf("%w: date range exceeds 90 days", ErrValidation)
		}
	}
	if cfg.InitialBalance <= 0 {
		return fmt.Errorf("%w: initial capital must be positive", ErrValidation)
	}
	if cfg.CommissionPct < 0 || cfg.CommissionPct > 1 {
		return fmt.Errorf("%w: commission must be within [0,1]", ErrValidation)
	}
	if cfg.SlippagePct < 0 || cfg.SlippagePct >= 1 {
		return fmt.Errorf("%w: slippage must be within [0,1)", ErrValidation)
	}

	r := cfg.Risk
	if r.RiskPerTrade < 0.001 || r.RiskPerTrade > 0.10 {
		return fmt.Errorf("%w: risk per trade %.4f outside [0.001,0.10]", ErrValidation, r.RiskPerTrade)
	}
	if r.StopLossPct < 0.005 || r.StopLossPct > 0.20 {
		return fmt.Errorf("%w: stop loss %.4f outside [0.005,0.20]", ErrValidation, r.StopLossPct)
	}
	if r.TakeProfitPct < 0.01 || r.TakeProfitPct > 0.50 {
		return fmt.Errorf("%w: take profit %.4f outside [0.01,0.50]", ErrValidation, r.TakeProfitPct)
	}
	if r.MaxPositions < 1 || r.MaxPositions > 10 {
		return fmt.Errorf("%w: max positions %d outside [1,10]", ErrValidation, r.MaxPositions)
	}
	if r.MaxDrawdownPct <= 0 || r.MaxDrawdownPct > 1 {
		return fmt.Errorf("%w: max drawdown threshold %.4f outside (0,1]", ErrValidation, r.MaxDrawdownPct)
	}

	p := cfg.Params
	if p.FastWindow <= 0 || p.SlowWindow <= 0 || p.FastWindow >= p.SlowWindow {
		return fmt.Errorf("%w: fast window must be positive and below slow window", ErrValidation)
	}
	if p.RSIWindow <= 1 {
		return fmt.Errorf("%w: rsi window must exceed 1", ErrValidation)
	}
	if p.RSIOversold <= 0 || p.RSIOverbought >= 100 || p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("%w: rsi thresholds must satisfy 0 < oversold < overbought < 100", ErrValidation)
	}
	if p.MACDFast <= 0 || p.MACDSlow <= p.MACDFast || p.MACDSignal <= 0 {
		return fmt.Errorf("%w: macd windows must satisfy 0 < fast < slow, signal > 0", ErrValidation)
	}
	if p.BBWindow <= 1 || p.BBStdDev <= 0 {
		return fmt.Errorf("%w: bollinger window must exceed 1 with positive multiplier", ErrValidation)
	}
	if p.MinStrength < 0 || p.MinStrength > 1 {
		return fmt.Errorf("%w: min strength outside [0,1]", ErrValidation)
	}
	return nil
}

// validateCandles checks what the provider contract guarantees; broken input
// fails the run up front instead of corrupting it midway.
func validateCandles(candles []models.Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp <= candles[i-1].Timestamp {
			return fmt.Errorf("%w: candles not strictly ascending at index %d", ErrValidation, i)
		}
	}
	return nil
}
