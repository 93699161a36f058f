package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nextgen_download_bot/pkg/logger"
)

// safeSend delivers a message and swallows transport failures so a single
// bad chat cannot take the loop down; failures are only logged.
func (b *Bot) safeSend(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Logger().Warn("failed to send message", zap.Error(err))
	}
}

func (b *Bot) safeReply(chatID int64, text string) {
	b.safeSend(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) safeEdit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		logger.Logger().Warn("failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}
