package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "bike_rental"

type PrometheusAdapter struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rentalEvents *prometheus.CounterVec
	revenue      prometheus.Counter
}

func NewPrometheusAdapter() *PrometheusAdapter {
	return NewPrometheusAdapterWithRegisterer(prometheus.DefaultRegisterer)
}

func NewPrometheusAdapterWithRegisterer(reg prometheus.Registerer) *PrometheusAdapter {
	a := &PrometheusAdapter{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		rentalEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rental_events_total",
			Help:      "Rental lifecycle transitions.",
		}, []string{"event"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billed_revenue_total",
			Help:      "Sum of the costs billed when rentals end.",
		}),
	}

	reg.MustRegister(a.requests, a.duration, a.rentalEvents, a.revenue)
	return a
}

// RecordMetrics is deferred by handlers; it reads the final status from c.
func (a *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())

	a.requests.WithLabelValues(c.Request.Method, path, status).Inc()
	a.duration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
}

func (a *PrometheusAdapter) RecordRentalEvent(event string) {
	a.rentalEvents.WithLabelValues(event).Inc()
}

func (a *PrometheusAdapter) RecordRevenue(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	value, _ := amount.Float64()
	a.revenue.Add(value)
}
