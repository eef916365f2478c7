package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalState is derived from the stored columns, never persisted on its own.
type RentalState string

const (
	RentalOpen    RentalState = "open"
	RentalEnded   RentalState = "ended"
	RentalSettled RentalState = "settled"
)

// Rental is an open rental while End is nil. TotalCost stays invalid until
// the rental has been ended and billed.
type Rental struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	CustomerID uuid.UUID           `json:"customer_id" db:"customer_id" validate:"required"`
	BikeID     uuid.UUID           `json:"bike_id" db:"bike_id" validate:"required"`
	Begin      time.Time           `json:"rental_begin" db:"rental_begin"`
	End        *time.Time          `json:"rental_end,omitempty" db:"rental_end"`
	TotalCost  decimal.NullDecimal `json:"total_cost" db:"total_cost"`
	Paid       bool                `json:"paid" db:"paid"`
	Version    int                 `json:"version" db:"version"`
}

func (r *Rental) IsOpen() bool {
	return r.End == nil
}

// Outstanding reports an ended rental whose positive cost is not paid yet.
func (r *Rental) Outstanding() bool {
	return !r.IsOpen() && r.TotalCost.Valid && r.TotalCost.Decimal.IsPositive() && !r.Paid
}

// BlocksBike reports whether the rental keeps its bike out of the available pool.
func (r *Rental) BlocksBike() bool {
	return r.IsOpen() || r.Outstanding()
}

func (r *Rental) State() RentalState {
	switch {
	case r.IsOpen():
		return RentalOpen
	case r.Outstanding():
		return RentalEnded
	default:
		return RentalSettled
	}
}

// RentalFilter narrows ListRentals. Zero values match everything.
type RentalFilter struct {
	CustomerID uuid.UUID
	BikeID     uuid.UUID
	OpenOnly   bool
}

// UnpaidRental is the billing view of an outstanding rental.
type UnpaidRental struct {
	CustomerID uuid.UUID       `json:"customer_id" db:"customer_id"`
	FirstName  string          `json:"first_name" db:"first_name"`
	LastName   string          `json:"last_name" db:"last_name"`
	RentalID   uuid.UUID       `json:"rental_id" db:"rental_id"`
	Begin      time.Time       `json:"rental_begin" db:"rental_begin"`
	End        time.Time       `json:"rental_end" db:"rental_end"`
	TotalCost  decimal.Decimal `json:"total_cost" db:"total_cost"`
}
