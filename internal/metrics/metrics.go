// Package metrics exposes Prometheus instrumentation for the inventory store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Mutation results
const (
	ResultOK           = "ok"
	ResultRejected     = "rejected"
	ResultNotFound     = "not_found"
	ResultNotPersisted = "not_persisted"
)

// Metrics holds the collectors updated by the store
type Metrics struct {
	Mutations       *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	Products        prometheus.Gauge
	Categories      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "mutations_total",
			Help:      "Store mutations by operation and result.",
		}, []string{"operation", "result"}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "persist_failures_total",
			Help:      "Write-through failures by collection.",
		}, []string{"collection"}),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "products",
			Help:      "Products currently held by the store.",
		}),
		Categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "categories",
			Help:      "Categories currently held by the store.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Mutations, m.PersistFailures, m.Products, m.Categories)
	}
	return m
}

// ObserveMutation counts one mutation outcome. Safe on a nil receiver.
func (m *Metrics) ObserveMutation(operation, result string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(operation, result).Inc()
}

// ObservePersistFailure counts a failed write of collection. Safe on a nil receiver.
func (m *Metrics) ObservePersistFailure(collection string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(collection).Inc()
}

// SetSizes records the current collection sizes. Safe on a nil receiver.
func (m *Metrics) SetSizes(products, categories int) {
	if m == nil {
		return
	}
	m.Products.Set(float64(products))
	m.Categories.Set(float64(categories))
}
