package config

import "go.uber.org/fx"

// Module отдаёт уже прочитанный конфиг в граф: логгер нужен раньше, чем fx.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
