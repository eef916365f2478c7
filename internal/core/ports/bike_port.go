package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

type BikeRepository interface {
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error)
	ListBikes(ctx context.Context) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	DeleteBike(ctx context.Context, bikeID uuid.UUID) error
}

type BikeService interface {
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error)
	ListBikes(ctx context.Context) ([]*domain.Bike, error)
	ListAvailableBikes(ctx context.Context, key domain.SortKey) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	DeleteBike(ctx context.Context, bikeID string) error
}
