// Package metrics exposes prometheus collectors for the debounce daemon.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/debounce-button/internal/logic"
)

const namespace = "debounce"

// Metrics holds the daemon's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Ticks        prometheus.Counter
	ReadErrors   prometheus.Counter
	Emissions    *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	State        *prometheus.GaugeVec
	HoldCount    prometheus.Gauge
	TickInterval prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "State machine ticks processed.",
		}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gpio_read_errors_total",
			Help:      "Ticks skipped because the button could not be read.",
		}),
		Emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emissions_total",
			Help:      "Characters written to the console.",
		}, []string{"char"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "State transitions taken.",
		}, []string{"from", "to"}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the current state, 0 otherwise.",
		}, []string{"state"}),
		HoldCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hold_count",
			Help:      "Current hold counter in ticks.",
		}),
		TickInterval: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_interval_seconds",
			Help:      "Wall-clock time between consecutive ticks.",
			Buckets:   []float64{0.05, 0.08, 0.09, 0.095, 0.1, 0.105, 0.11, 0.12, 0.15, 0.2, 0.5},
		}),
	}

	reg.MustRegister(
		m.Ticks, m.ReadErrors, m.Emissions, m.Transitions,
		m.State, m.HoldCount, m.TickInterval,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.SetState(logic.StateIdle, 0)
	return m
}

// Observe records the outcome of one tick.
func (m *Metrics) Observe(res logic.Result, state logic.State, count int) {
	m.Ticks.Inc()
	if res.Emitted {
		m.Emissions.WithLabelValues(string(res.Char)).Inc()
	}
	if res.Transition != nil {
		m.Transitions.WithLabelValues(res.Transition.From.String(), res.Transition.To.String()).Inc()
	}
	m.SetState(state, count)
}

// SetState sets the state gauges.
func (m *Metrics) SetState(state logic.State, count int) {
	for _, s := range logic.States {
		v := 0.0
		if s == state {
			v = 1
		}
		m.State.WithLabelValues(s.String()).Set(v)
	}
	m.HoldCount.Set(float64(count))
}

// ObserveInterval records the time since the previous tick.
func (m *Metrics) ObserveInterval(d time.Duration) {
	m.TickInterval.Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
