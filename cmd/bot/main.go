package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"fibobot/internal/models"
	"fibobot/internal/modules/config"
	"fibobot/internal/modules/health"
	"fibobot/internal/modules/market"
	"fibobot/internal/modules/metrics"
	"fibobot/internal/modules/notifier"
	"fibobot/internal/modules/scanner"
	"fibobot/internal/modules/strategy"
	"fibobot/internal/modules/tracing"
	strat "fibobot/internal/strategy"
	"fibobot/pkg/logger"
	pkgtracing "fibobot/pkg/tracing"
)

const serviceName = "fibobot"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "fibobot",
		Short: "EMA + Fibonacci + RSI market scanner",
		Long: `fibobot polls OKX candles on two timeframes and sends a Telegram
buy signal when trend, golden zone and RSI crossover line up.`,
		SilenceUsage: true,
		RunE:         runBot,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config (defaults to $CONFIG_DIR/$CONFIG_FILE)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(notifyTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the scanner loop",
		RunE:  runBot,
	}
}

func notifyTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Send a dummy signal to check Telegram delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			n, err := notifier.NewNotifier(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			now := time.Now()
			sig := models.Signal{
				Symbol:     cfg.Market.Instrument,
				EntryPrice: 2350.5,
				StopLoss:   2330.0,
				TakeProfit: 2400.0,
				Reason:     strat.Reason,
				BarTime:    now,
				CreatedAt:  now,
			}
			if err := n.SendSignal(ctx, sig); err != nil {
				return err
			}
			logger.Info("[MAIN] test signal sent")
			return nil
		},
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("[MAIN] effective config:\n%s", cfg.Dump())

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.InfoLogger}
		}),
		config.Module(cfg),
		metrics.Module(),
		tracing.Module(),
		health.Module(),
		market.Module(),
		notifier.Module(),
		strategy.Module(),
		scanner.Module(),
	)
	app.Run()
	return app.Err()
}

// setup читает конфиг и поднимает логгер, общий для всех команд.
func setup() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.FromPath(path)
	if err != nil {
		return nil, err
	}

	logger.SetServiceName(serviceName)
	pkgtracing.SetServiceName(serviceName)
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development}); err != nil {
		return nil, err
	}
	return cfg, nil
}
