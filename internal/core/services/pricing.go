package services

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// GracePeriod is billed at zero cost.
	GracePeriod = 15 * time.Minute
	billingHour = time.Hour
)

// CalculateCost bills the first hour flat once the grace period is exceeded and
// every further started hour at the additional-hour rate.
func CalculateCost(begin, end time.Time, priceFirstHour, priceAdditionalHours decimal.Decimal) decimal.Decimal {
	duration := end.Sub(begin)
	if duration <= GracePeriod {
		return decimal.Zero
	}

	cost := priceFirstHour
	if extra := duration - billingHour; extra > 0 {
		hours := int64((extra + billingHour - 1) / billingHour)
		cost = cost.Add(priceAdditionalHours.Mul(decimal.NewFromInt(hours)))
	}

	if cost.IsNegative() {
		return decimal.Zero
	}
	return cost
}
