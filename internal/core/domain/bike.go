package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// swagger:model domain.Bike
type Bike struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	Brand                string          `json:"brand" db:"brand" validate:"required,max=25"`
	PurchaseDate         time.Time       `json:"purchase_date" db:"purchase_date" validate:"required"`
	LastService          *time.Time      `json:"last_service,omitempty" db:"last_service"`
	Category             BikeCategory    `json:"category" db:"category" validate:"required,oneof=standard mountain trekking racer ebike"`
	Notes                string          `json:"notes,omitempty" db:"notes" validate:"max=1000"`
	PriceFirstHour       decimal.Decimal `json:"price_first_hour" db:"price_first_hour" validate:"gte=0"`
	PriceAdditionalHours decimal.Decimal `json:"price_additional_hours" db:"price_additional_hours" validate:"gte=0"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

type BikeCategory string

const (
	Standard BikeCategory = "standard"
	Mountain BikeCategory = "mountain"
	Trekking BikeCategory = "trekking"
	Racer    BikeCategory = "racer"
	EBike    BikeCategory = "ebike"
)

// SortKey selects the ordering of the available bikes listing.
type SortKey string

const (
	SortByPriceFirstHour       SortKey = "PriceOfFirstHour"
	SortByPriceAdditionalHours SortKey = "PriceOfAdditionalHours"
	SortByPurchaseDate         SortKey = "PurchaseDate"
	SortCatalog                SortKey = ""
)

// Known reports whether the key selects an explicit ordering.
func (k SortKey) Known() bool {
	switch k {
	case SortByPriceFirstHour, SortByPriceAdditionalHours, SortByPurchaseDate:
		return true
	}
	return false
}
