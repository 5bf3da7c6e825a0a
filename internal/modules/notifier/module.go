package notifier

import (
	"go.uber.org/fx"

	"fibobot/internal/modules/config"
	"fibobot/internal/notify"
)

func NewNotifier(cfg *config.Config) (notify.Notifier, error) {
	return notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
}

// Module отдаёт notify.Notifier: Telegram или лог.
func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(
			NewNotifier,
		),
	)
}
