package ports

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MetricsPort interface {
	RecordMetrics(c *gin.Context, start time.Time)
	RecordRentalEvent(event string)
	RecordRevenue(amount decimal.Decimal)
}
