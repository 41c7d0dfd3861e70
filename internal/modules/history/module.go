package history

import (
	"context"
	"log"

	"go.uber.org/fx"

	"backtest_service/internal/history"
	"backtest_service/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(cfg *config.Config) *history.Cache {
				return history.NewCache(history.NewOKXClient(), cfg.History.CacheTTL)
			},
			func(c *history.Cache) history.Provider { return c },
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, cache *history.Cache) {
			if len(cfg.History.FollowSymbols) == 0 {
				return
			}
			follower := history.NewFollower(cache, cfg.History.FollowSymbols, cfg.History.FollowTimeframe)

			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					log.Printf("[FOLLOW] tracking %d symbols on %s", len(cfg.History.FollowSymbols), cfg.History.FollowTimeframe)
					go follower.Run(ctx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
