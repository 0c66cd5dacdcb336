package action

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts stack operations and tracks the history size.
type Metrics struct {
	Operations    *prometheus.CounterVec
	HistoryLength prometheus.Gauge
	HistoryCursor prometheus.Gauge
}

// NewMetrics creates the stack metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nodegraph",
				Name:      "actions_total",
				Help:      "Total number of action stack operations.",
			},
			[]string{"op", "result"},
		),
		HistoryLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nodegraph",
			Name:      "history_length",
			Help:      "Number of actions held in the undo history.",
		}),
		HistoryCursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nodegraph",
			Name:      "history_cursor",
			Help:      "Number of applied actions in the undo history.",
		}),
	}
	reg.MustRegister(m.Operations, m.HistoryLength, m.HistoryCursor)
	return m
}

func (m *Metrics) observe(op, result string, length, cursor int) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
	m.HistoryLength.Set(float64(length))
	m.HistoryCursor.Set(float64(cursor))
}
