// Package notify pushes run-completion summaries to whoever watches the
// service: a Telegram channel in deployments, stdout everywhere else.
package notify

import (
	"fmt"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"backtest_service/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout logs instead of messaging, the default when no bot token is set.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }

// RunSummary formats one finished backtest for a notification message.
func RunSummary(cfg models.BacktestConfig, res *models.BacktestResult, runID int64) string {
	id := ""
	if runID > 0 {
		id = fmt.Sprintf(" #%d", runID)
	}
	return fmt.Sprintf(
		"Backtest%s %s %s / %s\n"+
			"return: %+.2f%% (%.2f)\n"+
			"trades: %d, win rate %.1f%%, PF %.2f\n"+
			"max drawdown: %.2f%%, sharpe %.2f",
		id, cfg.Symbol, cfg.Timeframe, cfg.Strategy,
		res.TotalReturnPct, res.TotalReturn,
		res.TotalTrades, res.WinRate, res.ProfitFactor,
		res.MaxDrawdownPct, res.SharpeRatio,
	)
}
