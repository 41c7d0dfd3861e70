package history

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"backtest_service/internal/models"
)

const (
	okxRestURL = "https://www.okx.com/api/v5/market/history-candles"
	// okxPageLimit is the maximum rows OKX returns per request.
	okxPageLimit = 100
	// okxPagePause keeps us under the public rate limit.
	okxPagePause = 250 * time.Millisecond
)

// OKXClient pages through the OKX history-candles REST endpoint.
type OKXClient struct {
	http    *http.Client
	baseURL string
}

func NewOKXClient() *OKXClient {
	return &OKXClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: okxRestURL,
	}
}

// okxBar maps the canonical timeframe to OKX's bar notation, "1h" -> "1H".
func okxBar(tf string) (string, error) {
	switch models.NormTimeframe(tf) {
	case "1m", "3m", "5m", "15m", "30m":
		return models.NormTimeframe(tf), nil
	case "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil
	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	}
	return "", errors.Errorf("unsupported timeframe for OKX bar: %q", tf)
}

// GetCandles walks the endpoint newest-to-oldest from until down to since,
// then reverses into ascending order. OKX rows arrive newest-first.
func (c *OKXClient) GetCandles(ctx context.Context, symbol, timeframe string, since, until int64) ([]models.Candle, error) {
	bar, err := okxBar(timeframe)
	if err != nil {
		return nil, err
	}

	var out []models.Candle
	cursor := until + 1 // "after" is exclusive
	for {
		page, err := c.fetchPage(ctx, symbol, bar, cursor)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		done := false
		for _, cd := range page {
			if cd.Timestamp < since {
				done = true
				continue
			}
			if cd.Timestamp <= until {
				out = append(out, cd)
			}
		}
		if done || len(page) < okxPageLimit {
			break
		}
		cursor = page[len(page)-1].Timestamp

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(okxPagePause):
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// fetchPage returns one page, newest first.
func (c *OKXClient) fetchPage(ctx context.Context, symbol, bar string, after int64) ([]models.Candle, error) {
	u := fmt.Sprintf("%s?instId=%s&bar=%s&after=%d&limit=%d",
		c.baseURL, url.QueryEscape(strings.ToUpper(symbol)), url.QueryEscape(bar), after, okxPageLimit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "okx request")
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("okx http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Code string     `json:"code"`
		Msg  string     `json:"msg"`
		Data [][]string `json:"data"`
	}
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "okx response")
	}
	if r.Code != "0" {
		return nil, errors.Errorf("okx candles error: code=%s msg=%s", r.Code, r.Msg)
	}

	// row: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
	out := make([]models.Candle, 0, len(r.Data))
	for _, row := range r.Data {
		if len(row) < 5 {
			continue
		}
		tsMs, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(row[1], 64)
		high, _ := strconv.ParseFloat(row[2], 64)
		low, _ := strconv.ParseFloat(row[3], 64)
		closep, _ := strconv.ParseFloat(row[4], 64)
		if closep <= 0 {
			continue
		}
		var vol float64
		if len(row) >= 6 {
			vol, _ = strconv.ParseFloat(row[5], 64)
		}
		out = append(out, models.Candle{
			Timestamp: tsMs,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closep,
			Volume:    vol,
		})
	}
	return out, nil
}
