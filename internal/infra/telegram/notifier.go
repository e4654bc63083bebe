package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"cafe_notice_bot/internal/domain/notice"
	domaintg "cafe_notice_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

var kst = time.FixedZone("KST", 9*60*60)

// NoticeNotifier delivers notices to one forum topic of a Telegram group.
type NoticeNotifier struct {
	client   domaintg.Client
	chatID   int64
	threadID int
	logger   *logrus.Entry
}

func NewNoticeNotifier(client domaintg.Client, chatID int64, threadID int, logger *logrus.Entry) *NoticeNotifier {
	return &NoticeNotifier{
		client:   client,
		chatID:   chatID,
		threadID: threadID,
		logger:   logger,
	}
}

// Notify sends one message and returns once Telegram accepted or rejected it.
func (n *NoticeNotifier) Notify(ctx context.Context, msg notice.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML}
	if err := n.client.SendMessage(n.chatID, n.threadID, FormatMessage(msg), opts); err != nil {
		return fmt.Errorf("telegram send to chat %d: %w", n.chatID, err)
	}
	n.logger.WithFields(logrus.Fields{
		"chat_id":   n.chatID,
		"thread_id": n.threadID,
		"url":       msg.URL,
	}).Debug("Notice sent to Telegram")
	return nil
}

// FormatMessage renders msg as Telegram HTML.
func FormatMessage(msg notice.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", html.EscapeString(msg.Title))
	fmt.Fprintf(&b, "<i>%s</i> · %s\n", html.EscapeString(msg.Author), msg.Timestamp.In(kst).Format("2006-01-02 15:04 KST"))
	fmt.Fprintf(&b, `<a href="%s">원문 보기</a>`, html.EscapeString(msg.URL))
	return b.String()
}
