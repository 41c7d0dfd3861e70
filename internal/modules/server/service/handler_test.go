package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest_service/internal/backtest"
	"backtest_service/internal/history"
	"backtest_service/internal/models"
	"backtest_service/internal/modules/config"
	enginesvc "backtest_service/internal/modules/engine/service"
	healthsvc "backtest_service/internal/modules/health/service"
	"backtest_service/internal/strategy"
)

type stubProvider struct {
	candles []models.Candle
	err     error
}

func (s *stubProvider) GetCandles(_ context.Context, _, _ string, _, _ int64) ([]models.Candle, error) {
	return s.candles, s.err
}

func newTestHandler(t *testing.T, provider history.Provider) *Handler {
	t.Helper()
	if provider == nil {
		provider = &stubProvider{}
	}
	svc := enginesvc.New(
		&config.Config{},
		backtest.NewEngine(strategy.NewRegistry()),
		provider,
		nil,
		nil,
		healthsvc.NewState(),
	)
	return NewHandler(svc)
}

func flatCandles(n int) []models.Candle {
	const hourMs = int64(60 * 60 * 1000)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Timestamp: int64(i+1) * hourMs,
			Open:      100, High: 100, Low: 100, Close: 100,
			Volume: 1,
		}
	}
	return out
}

func postRun(t *testing.T, h *Handler, req enginesvc.RunRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := sonic.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run-backtest", bytes.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var out struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	return out.Error.Code, out.Error.Message
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "backtest", out["service"])
}

func TestRunBacktestWithInlineCandles(t *testing.T) {
	h := newTestHandler(t, nil)

	req := enginesvc.RunRequest{
		BacktestConfig: models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "1h"},
		Candles:        flatCandles(60),
	}
	rec := postRun(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out enginesvc.RunResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.BacktestResult)
	assert.Zero(t, out.RunID)
	assert.Zero(t, out.TotalTrades)
	assert.InDelta(t, 10000, out.FinalEquity, 1e-9)
}

func TestRunBacktestFetchesWhenNoCandles(t *testing.T) {
	h := newTestHandler(t, &stubProvider{candles: flatCandles(60)})

	req := enginesvc.RunRequest{
		BacktestConfig: models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "1h"},
	}
	rec := postRun(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRunBacktestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		req        enginesvc.RunRequest
		wantStatus int
		wantCode   string
	}{
		{
			name: "unknown timeframe",
			req: enginesvc.RunRequest{
				BacktestConfig: models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "7m"},
				Candles:        flatCandles(60),
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "missing symbol",
			req: enginesvc.RunRequest{
				BacktestConfig: models.BacktestConfig{Timeframe: "1h"},
				Candles:        flatCandles(60),
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "insufficient history",
			req: enginesvc.RunRequest{
				BacktestConfig: models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "1h"},
				Candles:        flatCandles(10),
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_HISTORY",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, nil)
			rec := postRun(t, h, tc.req)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			code, msg := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestRunBacktestUpstreamFailure(t *testing.T) {
	h := newTestHandler(t, &stubProvider{err: assert.AnError})

	req := enginesvc.RunRequest{
		BacktestConfig: models.BacktestConfig{Symbol: "BTC-USDT", Timeframe: "1h"},
	}
	rec := postRun(t, h, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "UPSTREAM_ERROR", code)
}

func TestRunBacktestMalformedJSON(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run-backtest", bytes.NewReader([]byte("{not json"))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", code)
}

func TestRunBacktestRejectsGet(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run-backtest", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListRunsWithoutStore(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backtests?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Runs []any `json:"runs"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Runs)
}

func TestGetRunNotFound(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backtests/42", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestGetRunBadID(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/backtests/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
