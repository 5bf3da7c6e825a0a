package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"fibobot/internal/models"
	"fibobot/pkg/logger"
)

type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// GetCandles возвращает последние n свечей по возрастанию времени.
// OKX отдаёт newest-first страницами до 300 штук, листаем назад через after.
func (c *Client) GetCandles(ctx context.Context, instID, timeframe string, n int) (out models.Series, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "market.get_candles")
	span.SetTag("inst_id", instID)
	span.SetTag("timeframe", timeframe)
	defer func() {
		if err != nil {
			ext.LogError(span, err)
		}
		span.SetTag("bars", len(out))
		span.Finish()
	}()

	if n <= 0 {
		n = maxPageSize
	}
	bar, err := okxBar(timeframe)
	if err != nil {
		return nil, err
	}

	byTime := make(map[int64]models.Bar, n)
	var after int64
	for len(byTime) < n {
		limit := n - len(byTime)
		if limit > maxPageSize {
			limit = maxPageSize
		}

		if after != 0 {
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
		}

		page, err := c.getPage(ctx, instID, bar, limit, after)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		oldest := after
		for _, b := range page {
			ms := b.Time.UnixMilli()
			byTime[ms] = b
			if oldest == 0 || ms < oldest {
				oldest = ms
			}
		}
		// страница не сдвинулась назад: дальше листать нечего
		if oldest == after {
			break
		}
		after = oldest
	}

	out = make(models.Series, 0, len(byTime))
	for _, b := range byTime {
		if !c.cfg.IncludeForming && !b.Confirmed {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	if len(out) > n {
		out = out[len(out)-n:]
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoData, "%s %s", instID, bar)
	}

	logger.Debug("[MARKET] %s %s: %d bars, last=%s close=%.3f",
		instID, bar, len(out), out[len(out)-1].Time.Format(time.RFC3339), out[len(out)-1].Close)
	return out, nil
}

// getPage делает один запрос, row = [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (c *Client) getPage(ctx context.Context, instID, bar string, limit int, after int64) ([]models.Bar, error) {
	q := url.Values{}
	q.Set("instId", instID)
	q.Set("bar", bar)
	q.Set("limit", strconv.Itoa(limit))
	if after > 0 {
		q.Set("after", strconv.FormatInt(after, 10))
	}
	u := c.base + "/api/v5/market/candles?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build candles request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "candles request")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read candles response")
	}
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("http %d: %s", resp.StatusCode, string(b))
	}

	var r candlesResponse
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "decode candles response")
	}
	if r.Code != "0" {
		return nil, errors.Errorf("okx candles error: code=%s msg=%s", r.Code, r.Msg)
	}

	out := make([]models.Bar, 0, len(r.Data))
	for _, row := range r.Data {
		b, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", instID, bar)
		}
		out = append(out, b)
	}
	return out, nil
}

func parseRow(row []string) (models.Bar, error) {
	if len(row) < 5 {
		return models.Bar{}, errors.Errorf("candle row has %d fields", len(row))
	}

	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Bar{}, errors.Wrap(err, "candle ts")
	}

	var ohlc [4]float64
	for i := range ohlc {
		ohlc[i], err = strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return models.Bar{}, errors.Wrapf(err, "candle field %d", i+1)
		}
	}

	b := models.Bar{
		Time:      time.UnixMilli(tsMs).UTC(),
		Open:      ohlc[0],
		High:      ohlc[1],
		Low:       ohlc[2],
		Close:     ohlc[3],
		Confirmed: true,
	}
	if len(row) >= 6 {
		b.Volume, _ = strconv.ParseFloat(row[5], 64)
	}
	if len(row) >= 9 {
		b.Confirmed = row[8] == "1"
	}
	return b, nil
}
