package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

func newTestBikeService() (*BikeService, *memStore, *memCache) {
	store := newMemStore()
	cache := newMemCache()
	return NewBikeService(store, store, nopLogger{}, NewValidator(), cache, time.Minute), store, cache
}

func validBike() *domain.Bike {
	return &domain.Bike{
		Brand:                "Riese & Müller",
		PurchaseDate:         time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		Category:             domain.EBike,
		PriceFirstHour:       decimal.RequireFromString("6.50"),
		PriceAdditionalHours: decimal.RequireFromString("3.00"),
	}
}

func Test_BikeService_CreateBike_AssignsID(t *testing.T) {
	svc, store, _ := newTestBikeService()

	created, err := svc.CreateBike(context.Background(), validBike())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	_, err = store.GetBikeByID(context.Background(), created.ID)
	assert.NoError(t, err)
}

func Test_BikeService_CreateBike_Validation(t *testing.T) {
	svc, _, _ := newTestBikeService()

	tests := []struct {
		name   string
		mutate func(b *domain.Bike)
		field  string
	}{
		{"brand missing", func(b *domain.Bike) { b.Brand = "" }, "brand"},
		{"brand too long", func(b *domain.Bike) { b.Brand = "abcdefghijklmnopqrstuvwxyz" }, "brand"},
		{"unknown category", func(b *domain.Bike) { b.Category = "tandem" }, "category"},
		{"negative first hour price", func(b *domain.Bike) { b.PriceFirstHour = decimal.RequireFromString("-1") }, "price_first_hour"},
		{"negative additional price", func(b *domain.Bike) { b.PriceAdditionalHours = decimal.RequireFromString("-0.01") }, "price_additional_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bike := validBike()
			tt.mutate(bike)

			_, err := svc.CreateBike(context.Background(), bike)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func Test_BikeService_GetBikeByID_UsesCache(t *testing.T) {
	svc, store, cache := newTestBikeService()
	created, err := svc.CreateBike(context.Background(), validBike())
	require.NoError(t, err)

	_, err = svc.GetBikeByID(context.Background(), created.ID.String())
	require.NoError(t, err)
	_, cached := cache.entries[bikeCacheKey(created.ID.String())]
	assert.True(t, cached)

	// served from cache even after the row is gone
	store.bikes = nil
	bike, err := svc.GetBikeByID(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Brand, bike.Brand)
}

func Test_BikeService_GetBikeByID_InvalidID(t *testing.T) {
	svc, _, _ := newTestBikeService()

	_, err := svc.GetBikeByID(context.Background(), "42")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "bike_id", validationErr.Field)
}

func Test_BikeService_UpdateBike_InvalidatesCache(t *testing.T) {
	svc, _, cache := newTestBikeService()
	created, err := svc.CreateBike(context.Background(), validBike())
	require.NoError(t, err)
	_, err = svc.GetBikeByID(context.Background(), created.ID.String())
	require.NoError(t, err)
	_, err = svc.ListAvailableBikes(context.Background(), domain.SortCatalog)
	require.NoError(t, err)
	generation := cache.generation()

	created.Notes = "new chain"
	_, err = svc.UpdateBike(context.Background(), created)
	require.NoError(t, err)

	assert.NotContains(t, cache.entries, bikeCacheKey(created.ID.String()))
	assert.Greater(t, cache.generation(), generation)

	bike, err := svc.GetBikeByID(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "new chain", bike.Notes)
}

func Test_BikeService_DeleteBike(t *testing.T) {
	svc, _, _ := newTestBikeService()
	created, err := svc.CreateBike(context.Background(), validBike())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBike(context.Background(), created.ID.String()))

	_, err = svc.GetBikeByID(context.Background(), created.ID.String())
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	err = svc.DeleteBike(context.Background(), created.ID.String())
	assert.ErrorAs(t, err, &notFound)
}

func Test_BikeService_ListAvailableBikes_UnknownSortKeyKeepsCatalogOrder(t *testing.T) {
	svc, store, _ := newTestBikeService()
	expensive := store.addBike("9.00", "4.00")
	cheap := store.addBike("2.00", "1.00")

	bikes, err := svc.ListAvailableBikes(context.Background(), domain.SortKey("color"))

	require.NoError(t, err)
	require.Len(t, bikes, 2)
	assert.Equal(t, expensive.ID, bikes[0].ID)
	assert.Equal(t, cheap.ID, bikes[1].ID)

	bikes, err = svc.ListAvailableBikes(context.Background(), domain.SortByPriceFirstHour)
	require.NoError(t, err)
	assert.Equal(t, cheap.ID, bikes[0].ID)
}

// racingStore starts a rental right after the availability listing has taken
// its rental snapshot.
type racingStore struct {
	*memStore
	onListRentals func()
}

func (r *racingStore) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	rentals, err := r.memStore.ListRentals(ctx, filter)
	if r.onListRentals != nil {
		hook := r.onListRentals
		r.onListRentals = nil
		hook()
	}
	return rentals, err
}

func Test_BikeService_ListAvailableBikes_RentalStartedDuringListing(t *testing.T) {
	store := newMemStore()
	cache := newMemCache()
	racing := &racingStore{memStore: store}
	bikes := NewBikeService(store, racing, nopLogger{}, NewValidator(), cache, time.Minute)
	rentals := NewRentalService(store, store, store, nopLogger{}, cache)

	customer := store.addCustomer("Ada", "Lovelace")
	bike := store.addBike("4.00", "2.00")

	racing.onListRentals = func() {
		_, err := rentals.Start(context.Background(), &domain.Rental{CustomerID: customer.ID, BikeID: bike.ID})
		require.NoError(t, err)
	}
	stale, err := bikes.ListAvailableBikes(context.Background(), domain.SortCatalog)
	require.NoError(t, err)
	require.Len(t, stale, 1)

	available, err := bikes.ListAvailableBikes(context.Background(), domain.SortCatalog)

	require.NoError(t, err)
	for _, b := range available {
		assert.NotEqual(t, bike.ID, b.ID)
	}
}

func Test_BikeService_ListAvailableBikes_ServesCachedListing(t *testing.T) {
	svc, store, cache := newTestBikeService()
	store.addBike("4.00", "2.00")

	first, err := svc.ListAvailableBikes(context.Background(), domain.SortCatalog)
	require.NoError(t, err)
	store.addBike("5.00", "2.50")
	second, err := svc.ListAvailableBikes(context.Background(), domain.SortCatalog)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Contains(t, cache.entries, availabilityCacheKey(0, domain.SortCatalog))
}
