package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fibobot/internal/models"
	"fibobot/internal/modules/config"
)

// ErrNoData: биржа не вернула ни одной свечи.
var ErrNoData = errors.New("no bars returned")

// maxPageSize: лимит OKX на один запрос /market/candles.
const maxPageSize = 300

// Client: REST-клиент OKX для истории свечей.
type Client struct {
	cfg  config.MarketConfig
	http *http.Client
	base string
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Market.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg.Market,
		http: &http.Client{Timeout: timeout},
		base: strings.TrimRight(cfg.Market.BaseURL, "/"),
	}
}

// FetchSeries тянет старший и младший ТФ настроенного инструмента.
func (c *Client) FetchSeries(ctx context.Context) (slow, fast models.Series, err error) {
	slow, err = c.GetCandles(ctx, c.cfg.Instrument, c.cfg.SlowTimeframe, c.cfg.HistoryBars)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "slow series %s", c.cfg.SlowTimeframe)
	}
	fast, err = c.GetCandles(ctx, c.cfg.Instrument, c.cfg.FastTimeframe, c.cfg.HistoryBars)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fast series %s", c.cfg.FastTimeframe)
	}
	return slow, fast, nil
}

// sleep: пауза между страницами, прерывается контекстом.
func (c *Client) sleep(ctx context.Context) error {
	if c.cfg.RequestPause <= 0 {
		return nil
	}
	t := time.NewTimer(c.cfg.RequestPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
