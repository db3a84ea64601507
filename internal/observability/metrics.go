package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the settlement-core counters. A dedicated registry keeps
// the exposition surface under our control.
type Metrics struct {
	Registry *prometheus.Registry

	SettlementsTotal  *prometheus.CounterVec
	SignatureRejects  prometheus.Counter
	AllocatorRetries  prometheus.Counter
	GatewayCallsTotal *prometheus.CounterVec
	DocumentsRendered *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		SettlementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tablewise_settlements_total",
			Help: "Settlement attempts by target and outcome.",
		}, []string{"target", "outcome"}),
		SignatureRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablewise_signature_rejections_total",
			Help: "Payment callbacks rejected for signature mismatch.",
		}),
		AllocatorRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablewise_order_number_retries_total",
			Help: "Order number allocation retries under contention.",
		}),
		GatewayCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tablewise_gateway_calls_total",
			Help: "Outbound payment gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tablewise_documents_rendered_total",
			Help: "Financial documents rendered by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.SettlementsTotal,
		m.SignatureRejects,
		m.AllocatorRetries,
		m.GatewayCallsTotal,
		m.DocumentsRendered,
	)
	return m
}
