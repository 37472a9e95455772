// Package telemetry exports store activity as Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
)

const namespace = "inventory_dashboard"

// Collector counts store transitions and tracks collection sizes.
type Collector struct {
	transitions *prometheus.CounterVec
	products    prometheus.Gauge
	filtered    prometheus.Gauge
}

func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_transitions_total",
			Help:      "Completed store transitions by operation and outcome.",
		}, []string{"op", "outcome"}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products",
			Help:      "Products in the local collection.",
		}),
		filtered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products_shown",
			Help:      "Products matching the active filter.",
		}),
	}

	for _, col := range []prometheus.Collector{c.transitions, c.products, c.filtered} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe is an inventory.Observer.
func (c *Collector) Observe(ev inventory.Event) {
	c.transitions.WithLabelValues(string(ev.Kind), Outcome(ev)).Inc()
	c.products.Set(float64(len(ev.Snapshot.Products)))
	c.filtered.Set(float64(len(ev.Snapshot.Filtered)))
}

// Outcome labels ev: "ok", "stale" or the failure kind.
func Outcome(ev inventory.Event) string {
	switch {
	case ev.Stale:
		return "stale"
	case ev.Err == nil:
		return "ok"
	}

	switch errx.Kind(ev.Err) {
	case errx.KindValidation:
		return "validation_error"
	case errx.KindNotFound:
		return "not_found"
	default:
		return "transport_error"
	}
}
