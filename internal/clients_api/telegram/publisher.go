package telegram

// Sends finished artifacts to a Telegram chat as photos.

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"docviz/internal/infra/errs"
	logging "docviz/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxCaption is Telegram's caption limit in characters.
const maxCaption = 1024

// Sender is the part of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Publisher struct {
	bot Sender
}

// NewPublisher logs in with the bot token.
func NewPublisher(token string) (*Publisher, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errs.New(errs.CodeOptionalUnavailable, "TELEGRAM_BOT_TOKEN is not set")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errs.Wrap(errs.CodeOptionalUnavailable, err, "failed to connect to Telegram")
	}
	logging.LogDebug("Telegram bot authorized", zap.String("bot", bot.Self.UserName))
	return &Publisher{bot: bot}, nil
}

// NewPublisherWithSender is used with a preconfigured or fake bot.
func NewPublisherWithSender(s Sender) *Publisher {
	return &Publisher{bot: s}
}

// PublishPhoto uploads the image at path to chat, a numeric chat id or a
// "@channel" username.
func (p *Publisher) PublishPhoto(chat, path, caption string) error {
	chat = strings.TrimSpace(chat)
	if chat == "" {
		return errs.New(errs.CodeInvalidInput, "telegram chat id is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("artifact missing: %w", err)
	}

	file := tgbotapi.FilePath(path)
	var photo tgbotapi.PhotoConfig
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		photo = tgbotapi.NewPhoto(id, file)
	} else {
		if !strings.HasPrefix(chat, "@") {
			chat = "@" + chat
		}
		photo = tgbotapi.NewPhotoToChannel(chat, file)
	}
	photo.Caption = truncateCaption(caption)

	msg, err := p.bot.Send(photo)
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	logging.LogInfo("Artifact published to Telegram",
		zap.String("chat", chat),
		zap.Int("message_id", msg.MessageID),
		zap.String("path", path))
	return nil
}

func truncateCaption(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= maxCaption {
		return string(r)
	}
	return string(r[:maxCaption-1]) + "…"
}
