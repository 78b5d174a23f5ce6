package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes an Engine's active order count, per-side level
// counts, trades executed, and messages dropped as a
// prometheus.Collector, so a host process can register them on its own
// registry without this package owning an HTTP listener.
type Metrics struct {
	engine *Engine

	activeOrders    *prometheus.Desc
	bidLevels       *prometheus.Desc
	askLevels       *prometheus.Desc
	tradesExecuted  *prometheus.Desc
	messagesDropped *prometheus.Desc
}

// NewMetrics wraps e's counters for Prometheus collection.
func NewMetrics(e *Engine) *Metrics {
	return &Metrics{
		engine: e,
		activeOrders: prometheus.NewDesc(
			"titanlob_active_orders", "Number of active resting orders.", nil, nil),
		bidLevels: prometheus.NewDesc(
			"titanlob_bid_levels", "Number of non-empty bid price levels.", nil, nil),
		askLevels: prometheus.NewDesc(
			"titanlob_ask_levels", "Number of non-empty ask price levels.", nil, nil),
		tradesExecuted: prometheus.NewDesc(
			"titanlob_trades_executed_total", "Number of trades executed.", nil, nil),
		messagesDropped: prometheus.NewDesc(
			"titanlob_messages_dropped_total", "Number of output events dropped for a full ring.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.activeOrders
	ch <- m.bidLevels
	ch <- m.askLevels
	ch <- m.tradesExecuted
	ch <- m.messagesDropped
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.engine.mu.RLock()
	defer m.engine.mu.RUnlock()

	ch <- prometheus.MustNewConstMetric(m.activeOrders, prometheus.GaugeValue, float64(m.engine.activeOrderCount))
	ch <- prometheus.MustNewConstMetric(m.bidLevels, prometheus.GaugeValue, float64(m.engine.book.bidLevelCount))
	ch <- prometheus.MustNewConstMetric(m.askLevels, prometheus.GaugeValue, float64(m.engine.book.askLevelCount))
	ch <- prometheus.MustNewConstMetric(m.tradesExecuted, prometheus.CounterValue, float64(m.engine.em.tradesExecuted))
	ch <- prometheus.MustNewConstMetric(m.messagesDropped, prometheus.CounterValue, float64(m.engine.em.messagesDropped))
}
