package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_PrometheusAdapter_RecordMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewPrometheusAdapterWithRegisterer(prometheus.NewRegistry())

	router := gin.New()
	router.GET("/rentals/:id", func(c *gin.Context) {
		defer metrics.RecordMetrics(c, time.Now())
		c.Status(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rentals/42", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/rentals/:id", "404")))
}

func Test_PrometheusAdapter_RentalEventsAndRevenue(t *testing.T) {
	metrics := NewPrometheusAdapterWithRegisterer(prometheus.NewRegistry())

	metrics.RecordRentalEvent("started")
	metrics.RecordRentalEvent("started")
	metrics.RecordRentalEvent("ended")
	metrics.RecordRevenue(decimal.RequireFromString("6.00"))
	metrics.RecordRevenue(decimal.RequireFromString("2.50"))
	metrics.RecordRevenue(decimal.Zero)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.rentalEvents.WithLabelValues("started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rentalEvents.WithLabelValues("ended")))
	assert.InDelta(t, 8.5, testutil.ToFloat64(metrics.revenue), 1e-9)
}
