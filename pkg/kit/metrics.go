package kit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelService = "service"
	labelOp      = "op"
	labelResult  = "result"
)

type Metrics struct {
	Operations *prometheus.CounterVec
	Latency    *prometheus.HistogramVec

	service string
}

func NewMetrics(reg prometheus.Registerer, service string) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_operations_total",
				Help: "Store operations by outcome",
			},
			[]string{labelService, labelOp, labelResult},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Store operation latency",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{labelService, labelOp},
		),
		service: service,
	}

	reg.MustRegister(m.Operations, m.Latency)
	return m
}

// Observe records one finished operation. A nil Metrics is a no-op.
func (m *Metrics) Observe(op, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(m.service, op).Observe(d.Seconds())
	m.Operations.WithLabelValues(m.service, op, result).Inc()
}

// WriteTextfile dumps everything in g to path in the text exposition format, for
// pickup by a node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
