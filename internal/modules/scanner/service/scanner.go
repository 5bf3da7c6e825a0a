package service

import (
	"context"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"fibobot/internal/indicator"
	"fibobot/internal/metrics"
	"fibobot/internal/models"
	health "fibobot/internal/modules/health/service"
	"fibobot/internal/notify"
	"fibobot/internal/strategy"
	"fibobot/pkg/logger"
)

// ErrNoData: одна из серий пришла пустой.
var ErrNoData = errors.New("empty market series")

// MarketData: источник свечей обоих ТФ.
type MarketData interface {
	FetchSeries(ctx context.Context) (slow, fast models.Series, err error)
}

// FetchError: ошибка получения данных, после неё ждём обычный интервал.
type FetchError struct {
	err error
}

func (e *FetchError) Error() string { return "fetch: " + e.err.Error() }
func (e *FetchError) Unwrap() error { return e.err }

// IsFetchError: ошибка пришла от источника данных.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Outcome: итог одного цикла.
type Outcome struct {
	Decision   strategy.Decision
	Notified   bool
	Suppressed bool // сигнал по этой свече уже отправляли
}

type Options struct {
	PollInterval    time.Duration
	ErrorBackoff    time.Duration
	SuppressRepeats bool
}

type Scanner struct {
	opts   Options
	market MarketData
	notif  notify.Notifier
	engine *indicator.Engine
	eval   *strategy.Evaluator
	tracer opentracing.Tracer
	m      *metrics.Metrics
	state  *health.State

	mu       sync.Mutex
	lastSent time.Time // время младшей свечи последнего отправленного сигнала
}

func New(
	opts Options,
	market MarketData,
	notif notify.Notifier,
	engine *indicator.Engine,
	eval *strategy.Evaluator,
	tracer opentracing.Tracer,
	m *metrics.Metrics,
	state *health.State,
) *Scanner {
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return &Scanner{
		opts:   opts,
		market: market,
		notif:  notif,
		engine: engine,
		eval:   eval,
		tracer: tracer,
		m:      m,
		state:  state,
	}
}

// RunOnce: один проход fetch -> indicators -> evaluate -> notify.
// Ошибка доставки логируется и считается, но цикл не проваливает.
func (s *Scanner) RunOnce(ctx context.Context) (out Outcome, err error) {
	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, s.tracer, "scanner.cycle")
	start := time.Now()
	defer func() {
		s.m.CycleDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			ext.LogError(span, err)
			s.state.CycleFailed()
		}
		span.Finish()
	}()

	symbol := s.eval.Params().Symbol
	span.SetTag("symbol", symbol)

	slow, fast, err := s.market.FetchSeries(ctx)
	if err != nil {
		s.m.FetchErrors.Inc()
		s.m.CyclesTotal.WithLabelValues("no_data").Inc()
		return out, &FetchError{err: err}
	}
	s.m.BarsFetched.WithLabelValues("slow").Set(float64(len(slow)))
	s.m.BarsFetched.WithLabelValues("fast").Set(float64(len(fast)))
	if len(slow) == 0 || len(fast) == 0 {
		s.m.CyclesTotal.WithLabelValues("no_data").Inc()
		return out, &FetchError{err: ErrNoData}
	}

	trend, mom := s.engine.Compute(slow, fast)
	if v, ok := trend.LastEMA().Get(); ok {
		logger.Info("[SCAN] %s slow close=%.3f EMA=%.3f", symbol, trend.Bars[len(trend.Bars)-1].Close, v)
	}
	logger.Debug("[SCAN] %s RSI prev=%s last=%s", symbol, mom.PrevRSI(), mom.LastRSI())

	d, err := s.eval.Evaluate(trend, mom)
	if err != nil {
		s.m.CyclesTotal.WithLabelValues("error").Inc()
		return out, errors.Wrap(err, "evaluate")
	}
	out.Decision = d

	now := time.Now()
	s.state.CycleOK(now)
	s.m.LastCycleUnix.Set(float64(now.Unix()))

	if !d.HasSignal() {
		s.m.ConditionFailures.WithLabelValues(string(d.Failed)).Inc()
		s.m.CyclesTotal.WithLabelValues("no_signal").Inc()
		span.SetTag("failed", string(d.Failed))
		logger.Info("[SCAN] %s no signal: %s failed: %s", symbol, d.Failed, d.Detail)
		return out, nil
	}

	sig := *d.Signal
	s.m.CyclesTotal.WithLabelValues("signal").Inc()
	span.SetTag("signal", true)

	if s.opts.SuppressRepeats && s.alreadySent(sig.BarTime) {
		out.Suppressed = true
		logger.Info("[SCAN] %s signal for bar %s already sent", symbol, sig.BarTime.UTC().Format(time.RFC3339))
		return out, nil
	}

	s.m.SignalsTotal.Inc()
	s.state.TouchSignal(now)
	logger.Info("[SCAN] %s BUY entry=%.3f sl=%.3f tp=%.3f", symbol, sig.EntryPrice, sig.StopLoss, sig.TakeProfit)

	if nerr := s.notif.SendSignal(ctx, sig); nerr != nil {
		s.m.NotifyErrors.Inc()
		logger.Error("[SCAN] %s notify failed: %v", symbol, nerr)
		return out, nil
	}
	s.markSent(sig.BarTime)
	out.Notified = true
	return out, nil
}

// Run крутит циклы до отмены ctx.
func (s *Scanner) Run(ctx context.Context) {
	logger.Info("[SCAN] started, poll=%s", s.opts.PollInterval)
	for {
		pause := s.opts.PollInterval
		if _, err := s.RunOnce(ctx); err != nil {
			switch {
			case ctx.Err() != nil:
			case IsFetchError(err):
				logger.Warn("[SCAN] %v, will retry on next interval", err)
			default:
				logger.Error("[SCAN] unexpected error: %v, retrying in %s", err, s.opts.ErrorBackoff)
				pause = s.opts.ErrorBackoff
			}
		}
		if !sleep(ctx, pause) {
			logger.Info("[SCAN] stopped")
			return
		}
	}
}

func (s *Scanner) alreadySent(barTime time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastSent.IsZero() && !barTime.After(s.lastSent)
}

func (s *Scanner) markSent(barTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if barTime.After(s.lastSent) {
		s.lastSent = barTime
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
