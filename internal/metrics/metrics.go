// Package metrics holds the Prometheus instruments of the interview service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "talentscout"

// Metrics groups all Prometheus instruments used by the service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	Turns             *prometheus.CounterVec
	Questions         *prometheus.CounterVec
	GeneratorFailures prometheus.Counter
	Persists          *prometheus.CounterVec
	QuestionLatency   prometheus.Histogram
}

// New registers the instruments on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of interview sessions held in memory.",
		}),
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Candidate turns by the phase they were received in.",
		}, []string{"phase"}),
		Questions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Technical questions asked by source.",
		}, []string{"source"}),
		GeneratorFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_failures_total",
			Help:      "Failed language model attempts.",
		}),
		Persists: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_total",
			Help:      "Interview persistence attempts by result.",
		}, []string{"result"}),
		QuestionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "question_latency_ms",
			Help:      "Time to produce a technical question in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 15000},
		}),
	}
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func (m *Metrics) Turn(phase string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(phase).Inc()
}

// Question records one generated question and the attempts that failed on the way.
func (m *Metrics) Question(source string, failures int, d time.Duration) {
	if m == nil {
		return
	}
	m.Questions.WithLabelValues(source).Inc()
	m.GeneratorFailures.Add(float64(failures))
	m.QuestionLatency.Observe(float64(d.Milliseconds()))
}

func (m *Metrics) Persisted(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Persists.WithLabelValues(result).Inc()
}

// Handler serves the instruments registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
