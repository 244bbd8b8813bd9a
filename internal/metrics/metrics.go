package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Rolls        prometheus.Counter
	Scores       *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	TablesActive prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Tests pass a fresh registry so they
// never collide with each other or with the default one.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Rolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yahtzee_rolls_total",
			Help: "Successful rolls across all tables.",
		}),
		Scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yahtzee_scores_total",
			Help: "Rounds committed, by category.",
		}, []string{"category"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yahtzee_rejected_commands_total",
			Help: "Commands refused by the round engine, by reason.",
		}, []string{"reason"}),
		TablesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "yahtzee_tables_active",
			Help: "Tables currently held by the hub.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Rolls, m.Scores, m.Rejected, m.TablesActive)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
