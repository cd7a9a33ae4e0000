// Package metrics exposes shell and backend lifecycle counters in
// Prometheus format.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/carsonvertex/tauri-pos-app/pkg/backend"
	"github.com/carsonvertex/tauri-pos-app/pkg/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "posshell"

// Metrics holds the collectors of one shell instance.
type Metrics struct {
	Registry *prometheus.Registry

	commands      *prometheus.CounterVec
	backendUp     prometheus.Gauge
	healthUp      prometheus.Gauge
	healthLatency prometheus.Histogram
	healthChecks  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "invocations_total",
				Help:      "Total number of command invocations.",
			},
			[]string{"command", "result"},
		),
		backendUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "running",
				Help:      "Whether the supervisor holds a backend process.",
			},
		),
		healthUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "health",
				Name:      "reachable",
				Help:      "Whether the last health probe got a 2xx response.",
			},
		),
		healthLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "health",
				Name:      "probe_duration_seconds",
				Help:      "Duration of health probes.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),
		healthChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "health",
				Name:      "probes_total",
				Help:      "Total number of health probes.",
			},
			[]string{"reachable"},
		),
	}

	m.Registry.MustRegister(
		m.commands,
		m.backendUp,
		m.healthUp,
		m.healthLatency,
		m.healthChecks,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// ObserveCommand records one command invocation and the status it produced.
// st is the supervisor's state after the command even when err is set; a
// failed stop has already released the handle.
func (m *Metrics) ObserveCommand(name string, st backend.Status, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(name, result).Inc()
	m.SetBackendRunning(st.Running)
}

func (m *Metrics) SetBackendRunning(running bool) {
	if running {
		m.backendUp.Set(1)
		return
	}
	m.backendUp.Set(0)
}

// ObserveHealth implements health.Observer.
func (m *Metrics) ObserveHealth(r health.Result) {
	if r.Reachable {
		m.healthUp.Set(1)
	} else {
		m.healthUp.Set(0)
	}
	m.healthChecks.WithLabelValues(strconv.FormatBool(r.Reachable)).Inc()
	if r.Err == nil {
		m.healthLatency.Observe(r.Latency.Seconds())
	}
}

var _ health.Observer = (*Metrics)(nil)

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
