package telegram

import (
	"context"
	"fmt"
	"time"

	"cafe_notice_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// groupRetryInterval spaces out attempts to resolve the target group.
const groupRetryInterval = 30 * time.Second

// NewBot creates the bot. Telebot validates the token with getMe, so a bad token fails here.
func NewBot(cfg *config.AppConfig, logger *logrus.Entry) (*telebot.Bot, error) {
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"text":      c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telebot handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return bot, nil
}

// ResolveGroup blocks until the bot can see the target group, retrying on failure.
// It returns ctx's error if ctx ends first.
func ResolveGroup(ctx context.Context, bot *telebot.Bot, cfg *config.AppConfig, logger *logrus.Entry) error {
	for {
		chat, err := bot.ChatByID(cfg.GroupID)
		if err == nil {
			logger.WithFields(logrus.Fields{
				"bot":      bot.Me.Username,
				"group":    chat.Title,
				"topic_id": cfg.TopicID,
			}).Info("Connected to Telegram")
			return nil
		}
		logger.WithError(err).WithField("group_id", cfg.GroupID).
			Warnf("Could not resolve Telegram group, retrying in %s", groupRetryInterval)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(groupRetryInterval):
		}
	}
}
