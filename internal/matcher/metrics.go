package matcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts evaluated candidates by outcome. A nil *Metrics is a no-op,
// so callers without a registry pay nothing.
type Metrics struct {
	candidates prometheus.Counter
	results    *prometheus.CounterVec
}

// NewMetrics creates and registers the matcher collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "derivescan",
			Name:      "candidates_total",
			Help:      "Candidates evaluated against the reference corpus.",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "derivescan",
			Name:      "results_total",
			Help:      "Candidate classifications by status.",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.candidates, m.results)
	}
	return m
}

func (m *Metrics) observe(status Status) {
	if m == nil {
		return
	}
	m.candidates.Inc()
	m.results.WithLabelValues(status.String()).Inc()
}
