// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const startText = "안녕하세요! 네이버 카페 공지사항 게시판을 확인해서 새 공지를 이 그룹으로 전달하는 봇입니다. 명령어 목록은 /help 를 입력하세요."

func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", startHandler(startHelpLogger))
	b.Handle("/help", helpHandler(adminTelegramID, startHelpLogger))
}

func startHandler(logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logger.WithField("command", "/start").WithField("sender_id", c.Sender().ID).Info("Processing /start command")
		return c.Send(startText)
	}
}

func helpHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := logger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("새 공지는 주기적으로 확인되며, 올라온 순서대로 전달됩니다.\n\n")
		helpText.WriteString("/start - 봇 소개\n")
		helpText.WriteString("/help - 이 도움말 보기")
		if adminTelegramID != 0 && senderID == adminTelegramID {
			logCtx.Info("User identified as Admin, sending admin help.")
			helpText.WriteString("\n/status - 마지막 전달 번호와 최근 실행 결과 (관리자 전용)")
		}
		return c.Send(helpText.String())
	}
}
