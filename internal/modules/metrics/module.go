package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"fibobot/internal/metrics"
)

// NewRegistry: собственный реестр бота вместо глобального DefaultRegisterer.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func asRegisterer(r *prometheus.Registry) prometheus.Registerer { return r }
func asGatherer(r *prometheus.Registry) prometheus.Gatherer     { return r }

func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			NewRegistry,
			asRegisterer,
			asGatherer,
			metrics.NewMetrics,
		),
	)
}
