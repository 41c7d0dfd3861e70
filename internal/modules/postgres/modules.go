package postgres

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"

	"backtest_service/internal/modules/config"
	healthsvc "backtest_service/internal/modules/health/service"
	"backtest_service/internal/store"
	"backtest_service/pkg/db"
)

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			newRunStore,
		),
	)
}

// newRunStore wires the pool, schema and lifecycle. Without a DSN the store
// is nil and runs are simply not persisted.
func newRunStore(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, state *healthsvc.State) (*store.RunStore, error) {
	if cfg.DB == "" {
		log.Printf("[DB] no DSN configured, run persistence disabled")
		return nil, nil
	}

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}
	tm := db.NewPgTxManager(poolMaster)
	runs := store.NewRunStore(tm)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := poolMaster.Ping(ctx); err != nil {
				return err
			}
			if err := runs.EnsureSchema(ctx); err != nil {
				return err
			}
			state.SetDBConnected(true)
			return nil
		},
		OnStop: func(context.Context) error {
			state.SetDBConnected(false)
			tm.Close()
			return nil
		},
	})
	return runs, nil
}
