package services

import (
	"slices"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

// FilterAvailableBikes returns the bikes without a blocking rental, ordered by
// key. Rentals are matched to bikes through their bike reference, so every
// rental a bike ever had is taken into account. Unknown keys keep catalog order.
func FilterAvailableBikes(bikes []*domain.Bike, rentals []*domain.Rental, key domain.SortKey) []*domain.Bike {
	blocked := make(map[uuid.UUID]struct{}, len(rentals))
	for _, rental := range rentals {
		if rental.BlocksBike() {
			blocked[rental.BikeID] = struct{}{}
		}
	}

	available := make([]*domain.Bike, 0, len(bikes))
	for _, bike := range bikes {
		if _, ok := blocked[bike.ID]; !ok {
			available = append(available, bike)
		}
	}

	switch key {
	case domain.SortByPriceFirstHour:
		slices.SortStableFunc(available, func(a, b *domain.Bike) int {
			return a.PriceFirstHour.Cmp(b.PriceFirstHour)
		})
	case domain.SortByPriceAdditionalHours:
		slices.SortStableFunc(available, func(a, b *domain.Bike) int {
			return a.PriceAdditionalHours.Cmp(b.PriceAdditionalHours)
		})
	case domain.SortByPurchaseDate:
		slices.SortStableFunc(available, func(a, b *domain.Bike) int {
			return b.PurchaseDate.Compare(a.PurchaseDate)
		})
	}

	return available
}
