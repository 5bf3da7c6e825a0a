package market

import (
	"go.uber.org/fx"

	"fibobot/internal/modules/market/service"
)

// Module поднимает REST-клиент свечей OKX.
func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			service.NewClient, // *service.Client
		),
	)
}
