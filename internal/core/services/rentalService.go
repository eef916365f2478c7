package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

type RentalService struct {
	rentalRepo   ports.RentalRepository
	bikeRepo     ports.BikeRepository
	customerRepo ports.CustomerRepository
	logger       ports.LoggerPort
	cache        ports.CachePort
	now          func() time.Time
	retries      int
}

type RentalOption func(*RentalService)

// WithClock replaces time.Now as the source of rental timestamps.
func WithClock(now func() time.Time) RentalOption {
	return func(s *RentalService) {
		s.now = now
	}
}

// WithConcurrencyRetries sets how often a lost update is retried.
func WithConcurrencyRetries(retries int) RentalOption {
	return func(s *RentalService) {
		if retries >= 0 {
			s.retries = retries
		}
	}
}

func NewRentalService(
	rentalRepo ports.RentalRepository,
	bikeRepo ports.BikeRepository,
	customerRepo ports.CustomerRepository,
	logger ports.LoggerPort,
	cache ports.CachePort,
	opts ...RentalOption,
) *RentalService {
	s := &RentalService{
		rentalRepo:   rentalRepo,
		bikeRepo:     bikeRepo,
		customerRepo: customerRepo,
		logger:       logger,
		cache:        cache,
		now:          time.Now,
		retries:      defaultConcurrencyRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a rental of bikeID for customerID. End time and cost are
// computed by the service and must not be supplied by the caller.
func (s *RentalService) Start(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	if rental.End != nil {
		return nil, &domain.ValidationError{Field: "rental_end", Reason: "must not be set when starting a rental"}
	}
	if rental.TotalCost.Valid {
		return nil, &domain.ValidationError{Field: "total_cost", Reason: "must not be set when starting a rental"}
	}
	if rental.CustomerID == uuid.Nil {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if rental.BikeID == uuid.Nil {
		return nil, &domain.ValidationError{Field: "bike_id", Reason: "is required"}
	}

	if _, err := s.customerRepo.GetCustomerByID(ctx, rental.CustomerID); err != nil {
		s.logger.Warn("Rental start for unknown customer", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": rental.CustomerID,
		})
		return nil, err
	}
	if _, err := s.bikeRepo.GetBikeByID(ctx, rental.BikeID); err != nil {
		s.logger.Warn("Rental start for unknown bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": rental.BikeID,
		})
		return nil, err
	}

	customerRentals, err := s.rentalRepo.GetRentalsByCustomerID(ctx, rental.CustomerID)
	if err != nil {
		return nil, err
	}
	for _, existing := range customerRentals {
		if existing.IsOpen() {
			s.logger.Warn("Customer already has an active rental", map[string]interface{}{
				"customer_id": rental.CustomerID,
				"rental_id":   existing.ID,
			})
			return nil, domain.NewConflict(domain.EntityCustomer, rental.CustomerID, domain.RuleActiveRentalExists)
		}
	}

	bikeRentals, err := s.rentalRepo.GetRentalsByBikeID(ctx, rental.BikeID)
	if err != nil {
		return nil, err
	}
	for _, existing := range bikeRentals {
		if existing.BlocksBike() {
			s.logger.Warn("Bike is not available", map[string]interface{}{
				"bike_id":   rental.BikeID,
				"rental_id": existing.ID,
			})
			return nil, domain.NewConflict(domain.EntityBike, rental.BikeID, domain.RuleBikeNotAvailable)
		}
	}

	newRental := &domain.Rental{
		ID:         uuid.New(),
		CustomerID: rental.CustomerID,
		BikeID:     rental.BikeID,
		Begin:      s.now(),
		Version:    1,
	}

	created, err := s.rentalRepo.CreateRental(ctx, newRental)
	if err != nil {
		s.logger.Error("Failed to create rental", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": rental.CustomerID,
			"bike_id":     rental.BikeID,
		})
		return nil, err
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Rental started", map[string]interface{}{
		"rental_id":   created.ID,
		"customer_id": created.CustomerID,
		"bike_id":     created.BikeID,
	})

	return created, nil
}

// End closes an open rental and bills it. Ending a rental twice is a conflict.
func (s *RentalService) End(ctx context.Context, rentalID string) (*domain.Rental, error) {
	id, err := parseID("rental_id", rentalID)
	if err != nil {
		return nil, err
	}

	var ended *domain.Rental
	err = retryOnConcurrency(ctx, s.retries, func(ctx context.Context) error {
		rental, err := s.rentalRepo.GetRentalByID(ctx, id)
		if err != nil {
			return err
		}
		if !rental.IsOpen() {
			return domain.NewConflict(domain.EntityRental, id, domain.RuleRentalAlreadyEnded)
		}

		bike, err := s.bikeRepo.GetBikeByID(ctx, rental.BikeID)
		if err != nil {
			return err
		}

		end := s.now()
		if end.Before(rental.Begin) {
			end = rental.Begin
		}
		rental.End = &end
		rental.TotalCost = decimal.NewNullDecimal(
			CalculateCost(rental.Begin, end, bike.PriceFirstHour, bike.PriceAdditionalHours),
		)

		ended, err = s.rentalRepo.UpdateRental(ctx, rental)
		return err
	}, s.rentalExists(id))
	if err != nil {
		s.logger.Error("Failed to end rental", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
		})
		return nil, err
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Rental ended", map[string]interface{}{
		"rental_id":  ended.ID,
		"total_cost": ended.TotalCost.Decimal.StringFixed(2),
		"state":      string(ended.State()),
	})

	return ended, nil
}

func (s *RentalService) rentalExists(id uuid.UUID) RetryableFunc {
	return func(ctx context.Context) error {
		_, err := s.rentalRepo.GetRentalByID(ctx, id)
		return err
	}
}

func (s *RentalService) GetRentalByID(ctx context.Context, rentalID string) (*domain.Rental, error) {
	id, err := parseID("rental_id", rentalID)
	if err != nil {
		return nil, err
	}

	rental, err := s.rentalRepo.GetRentalByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get rental", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
		})
		return nil, err
	}
	return rental, nil
}

func (s *RentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	rentals, err := s.rentalRepo.ListRentals(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list rentals", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return rentals, nil
}

// ListUnpaid returns the ended rentals with a positive cost that are not paid.
func (s *RentalService) ListUnpaid(ctx context.Context) ([]*domain.UnpaidRental, error) {
	unpaid, err := s.rentalRepo.ListUnpaidRentals(ctx)
	if err != nil {
		s.logger.Error("Failed to list unpaid rentals", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Retrieved unpaid rentals", map[string]interface{}{
		"rentals_count": len(unpaid),
	})

	return unpaid, nil
}

func (s *RentalService) DeleteRental(ctx context.Context, rentalID string) error {
	id, err := parseID("rental_id", rentalID)
	if err != nil {
		return err
	}

	if err := s.rentalRepo.DeleteRental(ctx, id); err != nil {
		s.logger.Error("Failed to delete rental", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
		})
		return err
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Rental deleted successfully", map[string]interface{}{
		"rental_id": rentalID,
	})

	return nil
}
