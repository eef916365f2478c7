package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
	// ListCustomers filters by exact last name when lastName is not empty.
	ListCustomers(ctx context.Context, lastName string) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID uuid.UUID) error
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, lastName string) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	GetCustomerRentals(ctx context.Context, customerID string) ([]*domain.Rental, error)
}
