package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms exposed on /metrics.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	orderTransition *prometheus.CounterVec
	ordersUpdated   prometheus.Counter
}

func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

func newWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vincula_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status code",
		}, []string{"method", "path", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vincula_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vincula_orders_created_total",
			Help: "Total number of orders created",
		}),
		orderTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vincula_order_status_transitions_total",
			Help: "Total number of successful order status transitions by target status",
		}, []string{"status"}),
		ordersUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vincula_orders_updated_total",
			Help: "Total number of successful order updates",
		}),
	}

	registerer.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.orderTransition,
		m.ordersUpdated,
	)

	return m
}

func (m *Metrics) ObserveRequest(method, path string, code int, seconds float64) {
	m.httpRequests.WithLabelValues(method, path, codeLabel(code)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) OrderCreated() {
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderStatusChanged(status string) {
	m.orderTransition.WithLabelValues(status).Inc()
}

func (m *Metrics) OrderUpdated() {
	m.ordersUpdated.Inc()
}

func codeLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
