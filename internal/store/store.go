// Package store persists finished backtest runs so results survive restarts
// and can be listed or re-fetched by id.
package store

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"backtest_service/internal/models"
	"backtest_service/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
    id               BIGSERIAL PRIMARY KEY,
    symbol           TEXT        NOT NULL,
    timeframe        TEXT        NOT NULL,
    strategy         TEXT        NOT NULL,
    config           JSONB       NOT NULL,
    result           JSONB       NOT NULL,
    total_return_pct DOUBLE PRECISION NOT NULL,
    total_trades     INT         NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS backtest_runs_symbol_idx ON backtest_runs (symbol, created_at DESC);
`

// RunSummary is the list-view projection of a stored run.
type RunSummary struct {
	ID             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	Timeframe      string    `json:"timeframe"`
	Strategy       string    `json:"strategy"`
	TotalReturnPct float64   `json:"total_return_pct"`
	TotalTrades    int       `json:"total_trades"`
	CreatedAt      time.Time `json:"created_at"`
}

type RunStore struct {
	tm db.TxManager
}

func NewRunStore(tm db.TxManager) *RunStore {
	return &RunStore{tm: tm}
}

// EnsureSchema creates the runs table when missing.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	return s.tm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return errors.Wrap(err, "ensure schema")
	})
}

// SaveRun stores the config/result pair and returns the new run id.
func (s *RunStore) SaveRun(ctx context.Context, cfg models.BacktestConfig, res *models.BacktestResult) (int64, error) {
	cfgJSON, err := sonic.Marshal(cfg)
	if err != nil {
		return 0, errors.Wrap(err, "marshal config")
	}
	resJSON, err := sonic.Marshal(res)
	if err != nil {
		return 0, errors.Wrap(err, "marshal result")
	}

	var id int64
	err = s.tm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO backtest_runs (symbol, timeframe, strategy, config, result, total_return_pct, total_trades)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			cfg.Symbol, models.NormTimeframe(cfg.Timeframe), string(cfg.Strategy),
			cfgJSON, resJSON, res.TotalReturnPct, res.TotalTrades,
		).Scan(&id)
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	return id, nil
}

// GetRun returns the full stored result for one run.
func (s *RunStore) GetRun(ctx context.Context, id int64) (*models.BacktestResult, error) {
	var raw []byte
	err := s.tm.Conn().QueryRow(ctx,
		`SELECT result FROM backtest_runs WHERE id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select run")
	}

	var res models.BacktestResult
	if err := sonic.Unmarshal(raw, &res); err != nil {
		return nil, errors.Wrap(err, "unmarshal result")
	}
	return &res, nil
}

// ListRuns returns the latest runs, optionally narrowed to one symbol.
func (s *RunStore) ListRuns(ctx context.Context, symbol string, limit int) ([]RunSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT id, symbol, timeframe, strategy, total_return_pct, total_trades, created_at
	          FROM backtest_runs`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = $1`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := s.tm.Conn().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Timeframe, &r.Strategy, &r.TotalReturnPct, &r.TotalTrades, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ErrNotFound marks a run id with no stored row.
var ErrNotFound = errors.New("backtest run not found")
