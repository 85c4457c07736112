package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the server's prometheus collectors.
type Metrics struct {
	Sessions  prometheus.Gauge
	Mutations *prometheus.CounterVec
	Saves     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "flow_sessions_active",
			Help: "Canvas sessions currently hosted.",
		}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flow_mutations_total",
			Help: "Graph mutations applied, by operation.",
		}, []string{"op"}),
		Saves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "flow_saves_total",
			Help: "Save attempts, by result.",
		}, []string{"result"}),
	}
}
