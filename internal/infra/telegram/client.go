// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage posts text to a group chat, inside the forum topic threadID when it is non-zero.
func (tba *TelebotAdapter) SendMessage(chatID int64, threadID int, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	if threadID != 0 {
		options.ThreadID = threadID
	}

	recipient := &telebot.Chat{ID: chatID} // Group chats, not direct user chats
	_, err := tba.bot.Send(recipient, text, options)
	return err
}
