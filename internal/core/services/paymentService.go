package services

import (
	"context"

	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

type PaymentService struct {
	rentalRepo ports.RentalRepository
	logger     ports.LoggerPort
	cache      ports.CachePort
	retries    int
}

func NewPaymentService(
	rentalRepo ports.RentalRepository,
	logger ports.LoggerPort,
	cache ports.CachePort,
) *PaymentService {
	return &PaymentService{
		rentalRepo: rentalRepo,
		logger:     logger,
		cache:      cache,
		retries:    defaultConcurrencyRetries,
	}
}

// Pay settles an ended rental with a positive cost. Open, zero-cost and
// already paid rentals are returned unchanged with settled false.
func (s *PaymentService) Pay(ctx context.Context, rentalID string) (*domain.Rental, bool, error) {
	id, err := parseID("rental_id", rentalID)
	if err != nil {
		return nil, false, err
	}

	var result *domain.Rental
	settled := false

	err = retryOnConcurrency(ctx, s.retries, func(ctx context.Context) error {
		settled = false
		rental, err := s.rentalRepo.GetRentalByID(ctx, id)
		if err != nil {
			return err
		}
		if !rental.Outstanding() {
			result = rental
			return nil
		}

		rental.Paid = true
		result, err = s.rentalRepo.UpdateRental(ctx, rental)
		settled = err == nil
		return err
	}, func(ctx context.Context) error {
		_, err := s.rentalRepo.GetRentalByID(ctx, id)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to pay rental", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
		})
		return nil, false, err
	}

	if !settled {
		s.logger.Info("Rental needs no payment", map[string]interface{}{
			"rental_id": rentalID,
			"state":     string(result.State()),
		})
		return result, false, nil
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Rental paid", map[string]interface{}{
		"rental_id":  result.ID,
		"total_cost": result.TotalCost.Decimal.StringFixed(2),
	})

	return result, true, nil
}
