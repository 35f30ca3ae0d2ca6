package report

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramLimit is the maximum length of one Telegram message.
const telegramLimit = 4096

// Notifier delivers a finished report.
type Notifier interface {
	Notify(ctx context.Context, r Report) error
}

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts reports to a single chat.
type TelegramNotifier struct {
	api    messageSender
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, r Report) error {
	text := r.Text()
	if runes := []rune(text); len(runes) > telegramLimit {
		text = string(runes[:telegramLimit-1]) + "…"
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", n.chatID))
		return err
	}
	return nil
}

// LogNotifier writes the report to the log. It is used when no chat is
// configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, r Report) error {
	n.logger.Info("Daily report",
		zap.String("subject", r.Subject),
		zap.String("body", r.Body))
	return nil
}
