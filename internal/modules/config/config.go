package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"fibobot/internal/helper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_BOT_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"

	defaultConfigDir  = "configs"
	defaultConfigFile = "values_local.yaml"
)

// Config: вся конфигурация бота, читается один раз на старте.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Market   MarketConfig   `mapstructure:"market" yaml:"market"`
	Strategy StrategyConfig `mapstructure:"strategy" yaml:"strategy"`
	Scanner  ScannerConfig  `mapstructure:"scanner" yaml:"scanner"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing" yaml:"tracing"`
	Health   HealthConfig   `mapstructure:"health" yaml:"health"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

type MarketConfig struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	Instrument     string        `mapstructure:"instrument" yaml:"instrument"`
	SlowTimeframe  string        `mapstructure:"slow_timeframe" yaml:"slow_timeframe"` // тренд и свинги, 4H
	FastTimeframe  string        `mapstructure:"fast_timeframe" yaml:"fast_timeframe"` // RSI, 30m
	HistoryBars    int           `mapstructure:"history_bars" yaml:"history_bars"`
	IncludeForming bool          `mapstructure:"include_forming" yaml:"include_forming"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestPause   time.Duration `mapstructure:"request_pause" yaml:"request_pause"` // пауза между страницами, rate limit OKX
}

type StrategyConfig struct {
	EMAPeriod     int     `mapstructure:"ema_period" yaml:"ema_period"`
	RSIPeriod     int     `mapstructure:"rsi_period" yaml:"rsi_period"`
	RSIOversold   float64 `mapstructure:"rsi_oversold" yaml:"rsi_oversold"`
	SwingLookback int     `mapstructure:"swing_lookback" yaml:"swing_lookback"` // мин. расстояние между свингами, свечей
}

type ScannerConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	ErrorBackoff    time.Duration `mapstructure:"error_backoff" yaml:"error_backoff"`
	SuppressRepeats bool          `mapstructure:"suppress_repeats" yaml:"suppress_repeats"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

type HealthConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("market.base_url", "https://www.okx.com")
	v.SetDefault("market.instrument", "XAUT-USDT")
	v.SetDefault("market.slow_timeframe", "4H")
	v.SetDefault("market.fast_timeframe", "30m")
	v.SetDefault("market.history_bars", 300)
	v.SetDefault("market.include_forming", true)
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("market.request_pause", "200ms")

	v.SetDefault("strategy.ema_period", 50)
	v.SetDefault("strategy.rsi_period", 14)
	v.SetDefault("strategy.rsi_oversold", 30.0)
	v.SetDefault("strategy.swing_lookback", 10)

	v.SetDefault("scanner.poll_interval", "15m")
	v.SetDefault("scanner.error_backoff", "5m")
	v.SetDefault("scanner.suppress_repeats", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("health.addr", ":8080")
}

// NewConfig читает .env, configs/$CONFIG_FILE и переменные окружения
// (STRATEGY_EMA_PERIOD, SCANNER_POLL_INTERVAL, ...).
func NewConfig() (*Config, error) {
	return FromPath(DefaultPath())
}

// DefaultPath: $CONFIG_DIR/$CONFIG_FILE, по умолчанию configs/values_local.yaml.
func DefaultPath() string {
	dir := getenvDefault(configDirENV, defaultConfigDir)
	file := getenvDefault(configFilePathENV, defaultConfigFile)
	return filepath.Join(dir, file)
}

// FromPath: то же, что NewConfig, но с явным путём к файлу.
func FromPath(path string) (*Config, error) {
	_ = godotenv.Load()
	return Load(path)
}

// Load читает конкретный файл; отсутствующий файл не ошибка, берутся дефолты и env.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telegram.token", tokenTelegramENV)
	_ = v.BindEnv("telegram.chat_id", chatTelegramENV)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !isNotFound(err) {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}

// Validate проверяет параметры, без которых стратегия не имеет смысла.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Market.Instrument) == "":
		return errors.New("market.instrument is required")
	case c.Market.SlowTimeframe == "" || c.Market.FastTimeframe == "":
		return errors.New("market.slow_timeframe and market.fast_timeframe are required")
	case helper.TimeframeToDuration(c.Market.SlowTimeframe) == 0:
		return errors.Errorf("market.slow_timeframe %q is not supported", c.Market.SlowTimeframe)
	case helper.TimeframeToDuration(c.Market.FastTimeframe) == 0:
		return errors.Errorf("market.fast_timeframe %q is not supported", c.Market.FastTimeframe)
	case helper.TimeframeToDuration(c.Market.SlowTimeframe) <= helper.TimeframeToDuration(c.Market.FastTimeframe):
		return errors.New("market.slow_timeframe must be longer than market.fast_timeframe")
	case c.Market.HistoryBars < 2:
		return errors.New("market.history_bars must be >= 2")
	case c.Strategy.EMAPeriod < 1:
		return errors.New("strategy.ema_period must be >= 1")
	case c.Strategy.RSIPeriod < 1:
		return errors.New("strategy.rsi_period must be >= 1")
	case c.Strategy.RSIOversold <= 0 || c.Strategy.RSIOversold >= 100:
		return errors.New("strategy.rsi_oversold must be in (0, 100)")
	case c.Strategy.SwingLookback < 1:
		return errors.New("strategy.swing_lookback must be >= 1")
	case c.Scanner.PollInterval <= 0:
		return errors.New("scanner.poll_interval must be positive")
	case c.Scanner.ErrorBackoff <= 0:
		return errors.New("scanner.error_backoff must be positive")
	}
	return nil
}

// Dump: итоговый конфиг в YAML без секретов, для лога на старте.
func (c Config) Dump() string {
	if c.Telegram.Token != "" {
		c.Telegram.Token = "***"
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(b)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
