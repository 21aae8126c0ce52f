package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ScansReconciled   prometheus.Counter
	ItemsConsumed     prometheus.Counter
	NotificationsSent prometheus.Counter
	PlansGenerated    prometheus.Counter
	RowsSkipped       prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer; tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration across cases.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansReconciled: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_scans_reconciled_total",
			Help: "Total number of QR scans merged into the inventory",
		}),
		ItemsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_items_consumed_total",
			Help: "Total number of manual consumption events applied",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_notifications_sent_total",
			Help: "Total number of expiration notification emails sent",
		}),
		PlansGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_meal_plans_generated_total",
			Help: "Total number of meal plans generated",
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "pantry_invalid_rows_skipped_total",
			Help: "Inventory rows skipped during expiration scans because the stored date is not a valid calendar date",
		}),
	}
}
