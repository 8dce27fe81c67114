// Package metrics holds Prometheus instruments for the config sync loop.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "confsync_poll_total",
			Help: "Cumulative number of completed poll cycles.",
		})

	PollErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "confsync_poll_errors_total",
			Help: "Cumulative number of poll cycles that fetched or transformed with errors.",
		})

	LastSuccessTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confsync_last_success_timestamp_seconds",
			Help: "Unix time of the last successfully published configuration.",
		})

	ConfigVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confsync_config_version",
			Help: "Generation counter of the published configuration.",
		})

	PublishedProviders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confsync_published_providers",
			Help: "Provider count in the published configuration.",
		})

	PublishedModels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confsync_published_models",
			Help: "Model count in the published configuration.",
		})

	PublishedPipelines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confsync_published_pipelines",
			Help: "Pipeline count in the published configuration.",
		})
)

func init() {
	prometheus.MustRegister(
		PollTotal,
		PollErrorsTotal,
		LastSuccessTimestamp,
		ConfigVersion,
		PublishedProviders,
		PublishedModels,
		PublishedPipelines,
	)
}
