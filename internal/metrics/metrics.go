// Package metrics exports session counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "socks5d"

// Metrics records session outcomes. It satisfies proxy.Observer.
type Metrics struct {
	registry *prometheus.Registry

	sessions  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	active    prometheus.Gauge
	handshake prometheus.Histogram
}

// New returns Metrics registered on a private registry along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Finished sessions by result.",
		}, []string{"result"}),

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_errors_total",
			Help:      "Failed sessions by error kind.",
		}, []string{"kind"}),

		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Bytes relayed by direction.",
		}, []string{"direction"}),

		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently in handshake or relay.",
		}),

		handshake: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handshake_seconds",
			Help:      "Time from accept to the end of the handshake.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessions, m.errors, m.bytes, m.active, m.handshake,
	)
	return m
}

// Registry is the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted() {
	m.active.Inc()
}

func (m *Metrics) HandshakeDone(d time.Duration, _ string) {
	m.handshake.Observe(d.Seconds())
}

// SessionDone counts a finished session. errKind is empty on success.
func (m *Metrics) SessionDone(bytesIn, bytesOut uint64, errKind string) {
	m.active.Dec()
	m.bytes.WithLabelValues("client_to_upstream").Add(float64(bytesIn))
	m.bytes.WithLabelValues("upstream_to_client").Add(float64(bytesOut))

	if errKind == "" {
		m.sessions.WithLabelValues("ok").Inc()
		return
	}
	m.sessions.WithLabelValues("error").Inc()
	m.errors.WithLabelValues(errKind).Inc()
}
