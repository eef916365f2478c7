package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

// RentalRepository is the transactional store behind the rental lifecycle.
type RentalRepository interface {
	// CreateRental inserts an open rental. The check that neither the customer
	// nor the bike has a blocking rental runs in the same transaction and
	// fails with *domain.ConflictError.
	CreateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	GetRentalByID(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error)
	GetRentalsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Rental, error)
	GetRentalsByBikeID(ctx context.Context, bikeID uuid.UUID) ([]*domain.Rental, error)
	ListRentals(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error)
	ListUnpaidRentals(ctx context.Context) ([]*domain.UnpaidRental, error)
	// UpdateRental writes end, cost and paid if the stored version still
	// equals rental.Version, otherwise *domain.ConcurrencyError.
	UpdateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	DeleteRental(ctx context.Context, rentalID uuid.UUID) error
}

type RentalService interface {
	Start(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	End(ctx context.Context, rentalID string) (*domain.Rental, error)
	GetRentalByID(ctx context.Context, rentalID string) (*domain.Rental, error)
	ListRentals(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error)
	ListUnpaid(ctx context.Context) ([]*domain.UnpaidRental, error)
	DeleteRental(ctx context.Context, rentalID string) error
}

type PaymentService interface {
	// Pay reports settled only when this call marked the rental paid.
	Pay(ctx context.Context, rentalID string) (rental *domain.Rental, settled bool, err error)
}
