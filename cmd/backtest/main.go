package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"backtest_service/internal/modules/config"
	"backtest_service/internal/modules/engine"
	"backtest_service/internal/modules/health"
	historymod "backtest_service/internal/modules/history"
	"backtest_service/internal/modules/postgres"
	"backtest_service/internal/modules/server"
	"backtest_service/pkg/logger"
	"backtest_service/pkg/tracing"
)

const serviceName = "backtest_service"

func main() {
	logger.SetServiceName(serviceName)
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	tracing.SetServiceName(serviceName)
	jaegerPort, _ := strconv.Atoi(envDefault("JAEGER_AGENT_PORT", "6831"))
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: envDefault("JAEGER_AGENT_HOST", "localhost"),
		Port: jaegerPort,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer closeTracer()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		health.Module(),
		postgres.Module(),
		historymod.Module(),
		engine.Module(),
		server.Module(),
	)
	app.Run()
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
