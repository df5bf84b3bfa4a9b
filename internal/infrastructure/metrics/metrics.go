package metrics

import (
	"net/http"
	"time"

	"fxconverter/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fxconverter"

var _ application.ProviderMetrics = (*Metrics)(nil)

// Metrics owns its own registry so several instances can coexist in tests.
type Metrics struct {
	reg *prometheus.Registry

	RateLookups       *prometheus.CounterVec
	RateFetchFailures *prometheus.CounterVec
	Events            *prometheus.CounterVec
	EventDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		RateLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_lookups_total",
				Help:      "Rate table lookups by outcome.",
			},
			[]string{"outcome"},
		),
		RateFetchFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_fetch_failures_total",
				Help:      "Failed remote rate fetches by reason.",
			},
			[]string{"reason"},
		),
		Events: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_events_total",
				Help:      "Session events processed by the event loop.",
			},
			[]string{"kind", "status"},
		),
		EventDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_event_duration_seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) Lookup(outcome string) { m.RateLookups.WithLabelValues(outcome).Inc() }

func (m *Metrics) FetchFailure(reason string) { m.RateFetchFailures.WithLabelValues(reason).Inc() }

// ObserveEvent records one processed session event.
func (m *Metrics) ObserveEvent(kind string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Events.WithLabelValues(kind, status).Inc()
	m.EventDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
