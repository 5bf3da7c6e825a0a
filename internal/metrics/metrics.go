// Package metrics holds the Prometheus instruments of the scanner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics of the bot.
type Metrics struct {
	CyclesTotal       *prometheus.CounterVec // labels: result=signal|no_signal|no_data|error
	ConditionFailures *prometheus.CounterVec // labels: condition
	SignalsTotal      prometheus.Counter
	NotifyErrors      prometheus.Counter
	FetchErrors       prometheus.Counter
	CycleDuration     prometheus.Histogram
	BarsFetched       *prometheus.GaugeVec // labels: series=slow|fast
	LastCycleUnix     prometheus.Gauge
}

// NewMetrics creates the metrics and registers them in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibobot_cycles_total",
			Help: "Completed poll cycles by result",
		}, []string{"result"}),
		ConditionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibobot_condition_failures_total",
			Help: "Signal checks stopped at the given condition",
		}, []string{"condition"}),
		SignalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibobot_signals_total",
			Help: "Buy signals generated",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibobot_notify_errors_total",
			Help: "Failed signal deliveries",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibobot_fetch_errors_total",
			Help: "Failed market data fetches",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fibobot_cycle_duration_seconds",
			Help:    "Duration of one fetch-evaluate-notify cycle",
			Buckets: prometheus.DefBuckets,
		}),
		BarsFetched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fibobot_bars_fetched",
			Help: "Bars in the last fetched series",
		}, []string{"series"}),
		LastCycleUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibobot_last_cycle_timestamp_seconds",
			Help: "Unix time of the last completed cycle",
		}),
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.ConditionFailures,
		m.SignalsTotal,
		m.NotifyErrors,
		m.FetchErrors,
		m.CycleDuration,
		m.BarsFetched,
		m.LastCycleUnix,
	)
	return m
}
