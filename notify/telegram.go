package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatSender is the part of the bot API the sink needs.
type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink posts group events to the staff group chat and direct events
// to the recipient's private chat.
type TelegramSink struct {
	bot         chatSender
	groupChatID int64
}

// NewTelegramSink connects to the bot API. timeout bounds every HTTP call.
func NewTelegramSink(token string, groupChatID int64, timeout time.Duration) (*TelegramSink, error) {
	client := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &TelegramSink{bot: bot, groupChatID: groupChatID}, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(ctx context.Context, ev Event) error {
	chatID := s.groupChatID
	if ev.IsDirect() {
		id, err := strconv.ParseInt(ev.Recipient, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid telegram chat id %q: %w", ev.Recipient, err)
		}
		chatID = id
	}

	text := ev.Text
	if !ev.Markdown {
		text = EscapeMarkdown(text)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	errCh := make(chan error, 1)
	go func() {
		_, err := s.bot.Send(msg)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EscapeMarkdown escapes text for MarkdownV2 parse mode.
func EscapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, text)
}
