package notify

import (
	"context"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"fibobot/internal/models"
	"fibobot/pkg/logger"
)

// Notifier доставляет сигналы и служебные сообщения.
type Notifier interface {
	SendSignal(ctx context.Context, s models.Signal) error
	Send(ctx context.Context, msg string) error
}

// Telegram шлёт сообщения в один чат/канал.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot init")
	}
	return NewTelegramWithBot(b, chatID), nil
}

func NewTelegramWithBot(b *tgbot.BotAPI, chatID int64) *Telegram {
	return &Telegram{bot: b, chatID: chatID}
}

func (t *Telegram) SendSignal(ctx context.Context, s models.Signal) error {
	if err := t.send(ctx, FormatSignal(s), tgbot.ModeMarkdown); err != nil {
		return err
	}
	logger.Info("[NOTIFY] signal %s sent to telegram chat %d", s.Symbol, t.chatID)
	return nil
}

func (t *Telegram) Send(ctx context.Context, msg string) error {
	return t.send(ctx, msg, "")
}

func (t *Telegram) send(ctx context.Context, text, parseMode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = parseMode
	if _, err := t.bot.Send(msg); err != nil {
		return errors.Wrapf(err, "telegram send to %d", t.chatID)
	}
	return nil
}

// Stdout используется без токена и пишет всё в лог.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) SendSignal(_ context.Context, sig models.Signal) error {
	logger.Info("[NOTIFY] %s", FormatSignal(sig))
	return nil
}

func (s *Stdout) Send(_ context.Context, msg string) error {
	logger.Info("[NOTIFY] %s", msg)
	return nil
}

// New выбирает Telegram, если заданы токен и чат, иначе Stdout.
func New(token string, chatID int64) (Notifier, error) {
	if token == "" || chatID == 0 {
		logger.Warn("[NOTIFY] telegram token or chat id is not set, signals go to log only")
		return NewStdout(), nil
	}
	t, err := NewTelegram(token, chatID)
	if err != nil {
		return nil, err
	}
	logger.Info("[NOTIFY] telegram notifier ready as @%s, chat %d", t.bot.Self.UserName, chatID)
	return t, nil
}
