// Package metrics exposes session activity as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmynk/consoleatm/internal/models"
)

const namespace = "atm"

// Collector is an events.Listener that counts events and the amounts moved.
type Collector struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	amounts  *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Session events by kind and result.",
		}, []string{"kind", "result"}),
		amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amount_total",
			Help:      "Sum of successfully withdrawn or transferred amounts.",
		}, []string{"kind"}),
	}

	c.registry.MustRegister(
		c.events,
		c.amounts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Notify records one event.
func (c *Collector) Notify(ctx context.Context, event models.Event) error {
	c.events.WithLabelValues(string(event.Kind), result(event.Success)).Inc()

	if event.Success && event.Amount.Valid {
		amount, _ := event.Amount.Decimal.Float64()
		c.amounts.WithLabelValues(string(event.Kind)).Add(amount)
	}
	return nil
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
