package catalog

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Loads   *prometheus.CounterVec
	Records prometheus.Gauge
	Queries *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_load_total",
				Help: "Catalog loads by origin",
			},
			[]string{"origin"},
		),
		Records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_records",
				Help: "Artworks held in memory",
			},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "Catalog queries by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
	}

	reg.MustRegister(m.Loads, m.Records, m.Queries)
	return m
}

func (m *Metrics) observeLoad(origin string, n int) {
	m.Loads.WithLabelValues(origin).Inc()
	m.Records.Set(float64(n))
}

func (m *Metrics) observeQuery(op, outcome string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(op, outcome).Inc()
}
