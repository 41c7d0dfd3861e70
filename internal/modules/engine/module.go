package engine

import (
	"log"

	"go.uber.org/fx"

	"backtest_service/internal/backtest"
	"backtest_service/internal/modules/config"
	"backtest_service/internal/modules/engine/service"
	"backtest_service/internal/notify"
	"backtest_service/internal/strategy"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			strategy.NewRegistry,
			backtest.NewEngine,
			newNotifier,
			service.New,
		),
	)
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return notify.NewStdout()
	}
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[NOTIFY] telegram init failed, falling back to stdout: %v", err)
		return notify.NewStdout()
	}
	return tg
}
