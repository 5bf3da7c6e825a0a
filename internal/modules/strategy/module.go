package strategy

import (
	"go.uber.org/fx"

	"fibobot/internal/indicator"
	"fibobot/internal/modules/config"
	"fibobot/internal/strategy"
)

func NewParams(cfg *config.Config) strategy.Params {
	return strategy.Params{
		Symbol:        cfg.Market.Instrument,
		EMAPeriod:     cfg.Strategy.EMAPeriod,
		RSIPeriod:     cfg.Strategy.RSIPeriod,
		RSIOversold:   cfg.Strategy.RSIOversold,
		SwingLookback: cfg.Strategy.SwingLookback,
	}
}

func NewEngine(p strategy.Params) *indicator.Engine {
	return indicator.NewEngine(p.EMAPeriod, p.RSIPeriod)
}

// Module: индикаторы и оценщик сигнала, оба без состояния.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			NewParams,
			NewEngine,
			strategy.NewEvaluator,
		),
	)
}
