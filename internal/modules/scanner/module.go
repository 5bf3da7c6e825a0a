package scanner

import (
	"context"

	"go.uber.org/fx"

	"fibobot/internal/modules/config"
	marketsvc "fibobot/internal/modules/market/service"
	"fibobot/internal/modules/scanner/service"
	"fibobot/pkg/logger"
)

func newOptions(cfg *config.Config) service.Options {
	return service.Options{
		PollInterval:    cfg.Scanner.PollInterval,
		ErrorBackoff:    cfg.Scanner.ErrorBackoff,
		SuppressRepeats: cfg.Scanner.SuppressRepeats,
	}
}

func asMarketData(c *marketsvc.Client) service.MarketData { return c }

// Module запускает цикл сканера в отдельной горутине и гасит его на OnStop.
func Module() fx.Option {
	return fx.Module("scanner",
		fx.Provide(
			newOptions,
			asMarketData,
			service.New, // *service.Scanner
		),
		fx.Invoke(func(lc fx.Lifecycle, sc *service.Scanner) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						defer close(done)
						sc.Run(ctx)
					}()
					return nil
				},
				OnStop: func(stopCtx context.Context) error {
					cancel()
					select {
					case <-done:
					case <-stopCtx.Done():
						logger.Warn("[SCAN] stop timed out")
					}
					return nil
				},
			})
		}),
	)
}
