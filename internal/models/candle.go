package models

import "time"

// Candle is one OHLCV bar. Timestamps are epoch milliseconds of the bar open,
// ascending, no duplicates. Candles are immutable once produced by the provider.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// EquityPoint is one equity-curve sample: cash plus mark-to-market value of
// everything open at that bar's close.
type EquityPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}
