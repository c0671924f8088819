// Package notify pushes short Telegram messages to the configured admin
// chats when something worth a human glance happens: a weekly reset ran,
// or a new application entered the pending queue. Entirely optional; with
// no bot token the Notifier is nil and every method is a no-op.
package notify

import (
	"fmt"

	"github.com/classconduct/conduct-server/internal/models"
	"github.com/classconduct/conduct-server/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier struct {
	bot      *tgbotapi.BotAPI
	adminIDs []int64
	log      *zap.SugaredLogger
}

// New returns nil when token is empty or there is nobody to notify.
func New(token string, adminIDs []int64, log *zap.SugaredLogger) (*Notifier, error) {
	if token == "" || len(adminIDs) == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Notifier{bot: bot, adminIDs: adminIDs, log: log}, nil
}

func (n *Notifier) broadcast(text string) {
	if n == nil {
		return
	}
	for _, chatID := range n.adminIDs {
		if _, err := tg.Send(n.bot, tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Warnw("notify failed", "chat", chatID, "err", err)
		}
	}
}

func (n *Notifier) WeeklyReset(week int) {
	n.broadcast(fmt.Sprintf("Conduct scores were reset for week %d. Everyone is back to %d points.", week, models.BaseScore))
}

func (n *Notifier) ApplicationSubmitted(a models.Application) {
	n.broadcast(fmt.Sprintf("New %s application %s from %s (%s), subject %q.",
		a.Type, a.ID, a.StudentName, a.StudentID, a.Subject))
}
