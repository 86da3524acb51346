package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent  []tgbotapi.MessageConfig
	err   error
	block chan struct{}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.block != nil {
		<-b.block
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, msg)
	}
	return tgbotapi.Message{}, b.err
}

func TestTelegramSinkGroupMessage(t *testing.T) {
	bot := &fakeBot{}
	sink := &TelegramSink{bot: bot, groupChatID: -100}

	err := sink.Deliver(context.Background(), newEvent(KindPartySeated, "Party 'Ana' seated at table(s) 4.", time.Now()))
	require.NoError(t, err)

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(-100), bot.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, bot.sent[0].ParseMode)
	assert.Equal(t, "Party 'Ana' seated at table\\(s\\) 4\\.", bot.sent[0].Text)
}

func TestTelegramSinkDirectMessage(t *testing.T) {
	bot := &fakeBot{}
	sink := &TelegramSink{bot: bot, groupChatID: -100}

	ev := newEvent(KindDirect, "hello", time.Now())
	ev.Recipient = "987654"
	require.NoError(t, sink.Deliver(context.Background(), ev))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(987654), bot.sent[0].ChatID)
}

func TestTelegramSinkMarkdownPassesThrough(t *testing.T) {
	bot := &fakeBot{}
	sink := &TelegramSink{bot: bot, groupChatID: -100}

	ev := newEvent(KindPromotion, "*Bold*", time.Now())
	ev.Markdown = true
	require.NoError(t, sink.Deliver(context.Background(), ev))

	assert.Equal(t, "*Bold*", bot.sent[0].Text)
}

func TestTelegramSinkErrors(t *testing.T) {
	bot := &fakeBot{err: errors.New("forbidden")}
	sink := &TelegramSink{bot: bot, groupChatID: -100}

	assert.Error(t, sink.Deliver(context.Background(), newEvent(KindSystem, "x", time.Now())))

	ev := newEvent(KindDirect, "x", time.Now())
	ev.Recipient = "not-a-number"
	assert.Error(t, sink.Deliver(context.Background(), ev))
}

func TestTelegramSinkHonoursContext(t *testing.T) {
	bot := &fakeBot{block: make(chan struct{})}
	defer close(bot.block)
	sink := &TelegramSink{bot: bot, groupChatID: -100}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := sink.Deliver(ctx, newEvent(KindSystem, "x", time.Now()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
