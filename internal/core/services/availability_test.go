package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

func bikeFixture(brand, firstHour, additional string, purchased time.Time) *domain.Bike {
	return &domain.Bike{
		ID:                   uuid.New(),
		Brand:                brand,
		PurchaseDate:         purchased,
		PriceFirstHour:       decimal.RequireFromString(firstHour),
		PriceAdditionalHours: decimal.RequireFromString(additional),
	}
}

func rentalFixture(bikeID uuid.UUID, ended bool, cost string, paid bool) *domain.Rental {
	rental := &domain.Rental{ID: uuid.New(), CustomerID: uuid.New(), BikeID: bikeID, Begin: time.Now().Add(-time.Hour)}
	if ended {
		end := time.Now()
		rental.End = &end
		rental.TotalCost = decimal.NewNullDecimal(decimal.RequireFromString(cost))
		rental.Paid = paid
	}
	return rental
}

func brands(bikes []*domain.Bike) []string {
	out := make([]string, 0, len(bikes))
	for _, b := range bikes {
		out = append(out, b.Brand)
	}
	return out
}

func Test_FilterAvailableBikes_ExcludesBlockedBikes(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2022, 1, d, 0, 0, 0, 0, time.UTC) }
	free := bikeFixture("free", "3", "1", day(1))
	open := bikeFixture("open", "3", "1", day(2))
	unpaid := bikeFixture("unpaid", "3", "1", day(3))
	paid := bikeFixture("paid", "3", "1", day(4))
	zeroCost := bikeFixture("zero", "3", "1", day(5))

	rentals := []*domain.Rental{
		rentalFixture(open.ID, false, "", false),
		rentalFixture(unpaid.ID, true, "6.00", false),
		rentalFixture(paid.ID, true, "6.00", true),
		rentalFixture(zeroCost.ID, true, "0", false),
	}

	got := FilterAvailableBikes([]*domain.Bike{free, open, unpaid, paid, zeroCost}, rentals, domain.SortCatalog)

	assert.Equal(t, []string{"free", "paid", "zero"}, brands(got))
}

func Test_FilterAvailableBikes_MatchesEveryRentalOfABike(t *testing.T) {
	bike := bikeFixture("busy", "3", "1", time.Now())

	rentals := []*domain.Rental{
		rentalFixture(bike.ID, true, "6.00", true),
		rentalFixture(bike.ID, true, "0", false),
		rentalFixture(bike.ID, false, "", false),
	}

	got := FilterAvailableBikes([]*domain.Bike{bike}, rentals, domain.SortCatalog)

	assert.Empty(t, got)
}

func Test_FilterAvailableBikes_IgnoresRentalIDsThatEqualABikeID(t *testing.T) {
	bike := bikeFixture("lookalike", "3", "1", time.Now())
	other := bikeFixture("other", "3", "1", time.Now())
	rental := rentalFixture(other.ID, false, "", false)
	rental.ID = bike.ID

	got := FilterAvailableBikes([]*domain.Bike{bike, other}, []*domain.Rental{rental}, domain.SortCatalog)

	assert.Equal(t, []string{"lookalike"}, brands(got))
}

func Test_FilterAvailableBikes_Orderings(t *testing.T) {
	a := bikeFixture("a", "5.00", "1.00", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	b := bikeFixture("b", "3.00", "2.50", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	c := bikeFixture("c", "4.00", "0.50", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	catalog := []*domain.Bike{a, b, c}

	tests := []struct {
		key  domain.SortKey
		want []string
	}{
		{domain.SortByPriceFirstHour, []string{"b", "c", "a"}},
		{domain.SortByPriceAdditionalHours, []string{"c", "a", "b"}},
		{domain.SortByPurchaseDate, []string{"b", "c", "a"}},
		{domain.SortCatalog, []string{"a", "b", "c"}},
		{domain.SortKey("Brand"), []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := FilterAvailableBikes(catalog, nil, tt.key)
			assert.Equal(t, tt.want, brands(got))
		})
	}

	assert.Equal(t, []string{"a", "b", "c"}, brands(catalog), "input must not be reordered")
}
