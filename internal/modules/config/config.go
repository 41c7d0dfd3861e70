package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	DB string `yaml:"db_dsn"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	History struct {
		// CacheTTL bounds how long a fetched candle window stays fresh.
		CacheTTL time.Duration `yaml:"cache_ttl"`
		// FollowSymbols get a websocket subscription that invalidates their
		// cached windows when a candle closes. Empty disables the follower.
		FollowSymbols   []string `yaml:"follow_symbols"`
		FollowTimeframe string   `yaml:"follow_timeframe"`
	} `yaml:"history"`

	Backtest struct {
		// RunTimeout caps one simulation, 0 means no cap.
		RunTimeout time.Duration `yaml:"run_timeout"`
		// ProgressEvery is the bar interval between progress log lines.
		ProgressEvery int `yaml:"progress_every"`
	} `yaml:"backtest"`
}

func NewConfig() (*Config, error) {
	config := Config{}
	config.Service.Host = getenvDefault("SERVICE_HOST", "0.0.0.0")
	config.Service.PublicPort = intFromEnv("PUBLIC_PORT", 8000)
	config.Service.AdminPort = intFromEnv("ADMIN_PORT", 8001)
	config.History.CacheTTL = durationFromEnv("HISTORY_CACHE_TTL", "5m")
	config.History.FollowTimeframe = getenvDefault("FOLLOW_TIMEFRAME", "1h")
	config.Backtest.RunTimeout = durationFromEnv("BACKTEST_RUN_TIMEOUT", "60s")
	config.Backtest.ProgressEvery = intFromEnv("BACKTEST_PROGRESS_EVERY", 50)

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	if file, err := os.Open("configs/" + configFileName); err == nil {
		decoder := yaml.NewDecoder(file)
		err = decoder.Decode(&config)
		_ = file.Close()
		if err != nil {
			return nil, err
		}
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
