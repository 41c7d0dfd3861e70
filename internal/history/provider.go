// Package history supplies candle data to the backtest pipeline: an OKX REST
// provider, a TTL cache decorator, a websocket follower that keeps hot
// symbols fresh, and a CSV loader for offline runs.
package history

import (
	"context"

	"backtest_service/internal/models"
)

// Provider fetches candles for symbol/timeframe over [since, until], both
// epoch ms inclusive, oldest first and strictly ascending. An empty result is
// not an error; the caller decides what a lack of data means.
type Provider interface {
	GetCandles(ctx context.Context, symbol, timeframe string, since, until int64) ([]models.Candle, error)
}
