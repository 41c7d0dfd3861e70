package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"backtest_service/internal/modules/config"
	healthsvc "backtest_service/internal/modules/health/service"
	"backtest_service/internal/modules/server/service"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(
			service.NewHandler,
		),
		fx.Invoke(RunHTTP),
	)
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, h *service.Handler, state *healthsvc.State) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			log.Printf("[HTTP] listening on %s", addr)
			go func() { _ = srv.Serve(ln) }()
			state.SetReady(true)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}
