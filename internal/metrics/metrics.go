package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersvc_mutations_total",
			Help: "Successful writes by entity and operation",
		},
		[]string{"entity", "op"}, // customer|product|order , create|update|delete|add_product|remove_product
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersvc_events_total",
			Help: "Order events by pipeline stage",
		},
		[]string{"stage"}, // published|publish_failed|consumed|skipped|sink_failed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		MutationsTotal,
		EventsTotal,
	)
}
