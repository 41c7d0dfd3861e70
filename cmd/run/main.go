// Command run executes a single backtest over a CSV candle file and prints
// the result as JSON. Parameters come from backtest.yaml (working directory
// or configs/) with environment overrides, so it doubles as a smoke-test tool
// against recorded data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/viper"

	"backtest_service/internal/backtest"
	"backtest_service/internal/history"
	"backtest_service/internal/models"
	"backtest_service/internal/strategy"
)

// configFromViper builds the run config from the loaded settings, including
// the nested strategy_params and risk_params blocks.
func configFromViper(v *viper.Viper) (models.BacktestConfig, error) {
	cfg := models.BacktestConfig{
		Symbol:         v.GetString("symbol"),
		Timeframe:      v.GetString("timeframe"),
		Strategy:       models.StrategyType(v.GetString("strategy")),
		InitialBalance: v.GetFloat64("initial_capital"),
		CommissionPct:  v.GetFloat64("commission_pct"),
		SlippagePct:    v.GetFloat64("slippage_pct"),
	}
	if err := v.UnmarshalKey("strategy_params", &cfg.Params); err != nil {
		return cfg, fmt.Errorf("strategy params: %w", err)
	}
	if err := v.UnmarshalKey("risk_params", &cfg.Risk); err != nil {
		return cfg, fmt.Errorf("risk params: %w", err)
	}
	return cfg, nil
}

func main() {
	viper.SetConfigName("backtest")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("configs")
	viper.SetEnvPrefix("BT")
	viper.AutomaticEnv()

	viper.SetDefault("symbol", "BTC-USDT")
	viper.SetDefault("timeframe", "1h")
	viper.SetDefault("strategy", "ma_crossover")
	viper.SetDefault("progress_every", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("read config: %v", err)
		}
	}

	csvPath := viper.GetString("csv")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if csvPath == "" {
		log.Fatal("no csv file: pass a path argument or set csv in backtest.yaml")
	}

	candles, err := history.LoadCSV(csvPath)
	if err != nil {
		log.Fatalf("load candles: %v", err)
	}

	cfg, err := configFromViper(viper.GetViper())
	if err != nil {
		log.Fatalf("read config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []backtest.Option
	if every := viper.GetInt("progress_every"); every > 0 {
		opts = append(opts, backtest.WithProgress(func(p backtest.Progress) {
			log.Printf("bar %d/%d equity %.2f", p.Bar, p.Total, p.Equity)
		}, every))
	}

	eng := backtest.NewEngine(strategy.NewRegistry())
	res, err := eng.Run(ctx, cfg, candles, opts...)
	if err != nil {
		log.Fatalf("run failed [%s]: %v", backtest.ErrorCode(err), err)
	}

	out, err := sonic.MarshalIndent(res, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
