package models

import (
	"strings"
	"time"
)

// NormTimeframe brings the common spellings ("1H", "60m", "candle1m") to the
// canonical lowercase form used as cache keys and config values.
func NormTimeframe(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m":
		return "1h"
	case "24h":
		return "1d"
	default:
		return s
	}
}

// TimeframeDuration returns the bar duration, or 0 for an unknown timeframe.
func TimeframeDuration(tf string) time.Duration {
	switch NormTimeframe(tf) {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "6h":
		return 6 * time.Hour
	case "12h":
		return 12 * time.Hour
	case "1d":
		return 24 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// BarsPerYear is the annualization base for the Sharpe ratio.
func BarsPerYear(tf string) float64 {
	d := TimeframeDuration(tf)
	if d <= 0 {
		return 0
	}
	return float64(365*24*time.Hour) / float64(d)
}
