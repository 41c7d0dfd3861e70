package history

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"backtest_service/internal/models"
)

const okxWsURL = "wss://ws.okx.com:8443/ws/v5/business"

// Follower keeps one websocket per timeframe on the hot symbol set and
// invalidates cached windows whenever a candle closes, so the next backtest
// over those symbols refetches instead of replaying a stale cache entry.
type Follower struct {
	cache     *Cache
	dialer    *websocket.Dialer
	url       string
	symbols   []string
	timeframe string
}

func NewFollower(cache *Cache, symbols []string, timeframe string) *Follower {
	return &Follower{
		cache:     cache,
		dialer:    &websocket.Dialer{},
		url:       okxWsURL,
		symbols:   symbols,
		timeframe: models.NormTimeframe(timeframe),
	}
}

// Run dials, subscribes and reads until the context ends, reconnecting after
// a second on any failure.
func (f *Follower) Run(ctx context.Context) {
	if len(f.symbols) == 0 {
		return
	}
	channel := "candle" + f.timeframe

	args := make([]map[string]string, 0, len(f.symbols))
	for _, s := range f.symbols {
		args = append(args, map[string]string{"channel": channel, "instId": s})
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Printf("[FOLLOW] connect %s %d symbols", channel, len(f.symbols))
		conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
		if err != nil {
			log.Printf("[FOLLOW] dial error %s: %v", channel, err)
			sleep(ctx, time.Second)
			continue
		}

		if err := conn.WriteJSON(map[string]any{"op": "subscribe", "args": args}); err != nil {
			log.Printf("[FOLLOW] subscribe error %s: %v", channel, err)
			_ = conn.Close()
			continue
		}

		// keepalive ping every 20s, OKX drops silent connections
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		f.readLoop(ctx, conn, channel)
		close(stopPing)
		_ = conn.Close()
		sleep(ctx, time.Second)
	}
}

func (f *Follower) readLoop(ctx context.Context, conn *websocket.Conn, channel string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[FOLLOW] read error %s: %v", channel, err)
			return
		}

		var frame struct {
			Arg struct {
				Channel string `json:"channel"`
				InstID  string `json:"instId"`
			} `json:"arg"`
			Data [][]string `json:"data"`
		}
		if err := sonic.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Arg.Channel != channel || len(frame.Data) == 0 {
			continue
		}

		for _, row := range frame.Data {
			if len(row) < 5 {
				continue
			}
			// confirm flag is the last element; only closed candles count
			if row[len(row)-1] != "1" {
				continue
			}
			if ts, err := strconv.ParseInt(row[0], 10, 64); err == nil && ts > 0 {
				f.cache.Invalidate(frame.Arg.InstID)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
