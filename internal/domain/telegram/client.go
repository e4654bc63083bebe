package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// threadID addresses a forum topic inside chatID; 0 posts to the chat itself.
type Client interface {
	SendMessage(chatID int64, threadID int, text string, options *telebot.SendOptions) error
}
