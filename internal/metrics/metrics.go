// Package metrics holds prometheus series of the derivative pipeline
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeGenerated = "generated"
	OutcomeFailed    = "failed"

	StageSource    = "source"
	StageTransform = "transform"
	StageStore     = "store"

	statusOK    = "ok"
	statusError = "error"
)

// Metrics is safe to use as a nil pointer: every method becomes a no-op.
type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	outputBytes   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "derivatives_runs_total",
			Help: "Total pipeline invocations by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "derivatives_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		outputBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "derivatives_output_bytes_total",
			Help: "Total encoded bytes produced per derivative.",
		}, []string{"derivative"}),
	}

	registry.MustRegister(m.runsTotal, m.stageDuration, m.outputBytes)
	return m
}

func (m *Metrics) ObserveRun(generated bool) {
	if m == nil {
		return
	}
	outcome := OutcomeFailed
	if generated {
		outcome = OutcomeGenerated
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.stageDuration.WithLabelValues(stage, status).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AddOutputBytes(derivative string, n int) {
	if m == nil {
		return
	}
	m.outputBytes.WithLabelValues(derivative).Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
