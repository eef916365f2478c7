package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

type CustomerService struct {
	customerRepo ports.CustomerRepository
	rentalRepo   ports.RentalRepository
	logger       ports.LoggerPort
	validate     *validator.Validate
	cache        ports.CachePort
}

func NewCustomerService(
	customerRepo ports.CustomerRepository,
	rentalRepo ports.RentalRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		rentalRepo:   rentalRepo,
		logger:       logger,
		validate:     validate,
		cache:        cache,
	}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := s.validate.Struct(customer); err != nil {
		s.logger.Error("Customer validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, toValidationError(err)
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.Gender == "" {
		customer.Gender = domain.Unknown
	}

	createdCustomer, err := s.customerRepo.CreateCustomer(ctx, customer)
	if err != nil {
		s.logger.Error("Failed to create customer", map[string]interface{}{
			"error":     err.Error(),
			"last_name": customer.LastName,
		})
		return nil, err
	}

	s.logger.Info("Customer created successfully", map[string]interface{}{
		"customer_id": createdCustomer.ID,
	})

	return createdCustomer, nil
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customerUUID, err := parseID("customer_id", customerID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	customer, err := s.customerRepo.GetCustomerByID(ctx, customerUUID)
	if err != nil {
		s.logger.Error("Failed to get customer", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customerID,
		})
		return nil, err
	}

	return customer, nil
}

// ListCustomers returns all customers, or the ones with exactly lastName.
func (s *CustomerService) ListCustomers(ctx context.Context, lastName string) ([]*domain.Customer, error) {
	customers, err := s.customerRepo.ListCustomers(ctx, lastName)
	if err != nil {
		s.logger.Error("Failed to list customers", map[string]interface{}{
			"error":     err.Error(),
			"last_name": lastName,
		})
		return nil, err
	}

	s.logger.Info("Retrieved customers", map[string]interface{}{
		"last_name":       lastName,
		"customers_count": len(customers),
	})

	return customers, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := s.validate.Struct(customer); err != nil {
		s.logger.Error("Customer validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, toValidationError(err)
	}

	updatedCustomer, err := s.customerRepo.UpdateCustomer(ctx, customer)
	if err != nil {
		s.logger.Error("Failed to update customer", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customer.ID,
		})
		return nil, err
	}

	s.logger.Info("Customer updated successfully", map[string]interface{}{
		"customer_id": customer.ID,
	})

	return updatedCustomer, nil
}

// DeleteCustomer removes the customer and, through the foreign key, its rentals.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	customerUUID, err := parseID("customer_id", customerID)
	if err != nil {
		return err
	}

	if err := s.customerRepo.DeleteCustomer(ctx, customerUUID); err != nil {
		s.logger.Error("Failed to delete customer", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customerID,
		})
		return err
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Customer deleted successfully", map[string]interface{}{
		"customer_id": customerID,
	})

	return nil
}

// GetCustomerRentals returns the customer's rentals, oldest first.
func (s *CustomerService) GetCustomerRentals(ctx context.Context, customerID string) ([]*domain.Rental, error) {
	customerUUID, err := parseID("customer_id", customerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetCustomerByID(ctx, customerUUID); err != nil {
		s.logger.Error("Failed to get customer", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customerID,
		})
		return nil, err
	}

	rentals, err := s.rentalRepo.GetRentalsByCustomerID(ctx, customerUUID)
	if err != nil {
		s.logger.Error("Failed to get customer rentals", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customerID,
		})
		return nil, err
	}

	s.logger.Info("Retrieved rentals for customer", map[string]interface{}{
		"customer_id":   customerID,
		"rentals_count": len(rentals),
	})

	return rentals, nil
}
