package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is optional; a nil *Metrics records nothing.
type Metrics struct {
	syncs       *prometheus.CounterVec
	itemChanges *prometheus.CounterVec
	activeViews prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		syncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cart",
			Name:      "reconciliations_total",
			Help:      "Stock reconciliation attempts by result.",
		}, []string{"result"}),
		itemChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cart",
			Name:      "reconciled_item_changes_total",
			Help:      "Cart line changes applied by reconciliation.",
		}, []string{"change"}),
		activeViews: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "cart",
			Name:      "active_views",
			Help:      "Cart views with a running stock validator.",
		}),
	}
}

func (m *Metrics) syncResult(result string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
}

func (m *Metrics) report(r SyncReport) {
	if m == nil {
		return
	}
	add := func(change string, n int) {
		if n > 0 {
			m.itemChanges.WithLabelValues(change).Add(float64(n))
		}
	}
	add("out_of_stock", r.MarkedOutOfStock)
	add("restocked", r.Restocked)
	add("price_updated", r.PriceUpdated)
	add("price_flagged", r.PriceFlagged)
	add("removed", r.Removed)
}

func (m *Metrics) viewStarted() {
	if m != nil {
		m.activeViews.Inc()
	}
}

func (m *Metrics) viewStopped() {
	if m != nil {
		m.activeViews.Dec()
	}
}
