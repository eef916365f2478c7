package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

const customerColumns = `id, gender, first_name, last_name, birthday, street,
	house_number, zip_code, town, created_at, updated_at`

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `INSERT INTO customers (id, gender, first_name, last_name, birthday, street, house_number, zip_code, town)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		customer.ID,
		customer.Gender,
		customer.FirstName,
		customer.LastName,
		customer.Birthday,
		customer.Street,
		customer.HouseNumber,
		customer.ZipCode,
		customer.Town,
	).Scan(
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("create customer", domain.EntityCustomer, customer.ID, err)
	}
	return customer, nil
}

func (r *CustomerRepository) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var customer domain.Customer
	if err := r.db.GetContext(ctx, &customer, query, customerID); err != nil {
		return nil, translateError("get customer", domain.EntityCustomer, customerID, err)
	}
	return &customer, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context, lastName string) ([]*domain.Customer, error) {
	stmt := dialect.
		From("customers").
		Select(
			"id", "gender", "first_name", "last_name", "birthday", "street",
			"house_number", "zip_code", "town", "created_at", "updated_at",
		).
		Order(goqu.I("last_name").Asc(), goqu.I("first_name").Asc())

	if lastName != "" {
		stmt = stmt.Where(goqu.C("last_name").Eq(lastName))
	}

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "build list customers", Err: err}
	}

	customers := []*domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, &domain.PersistenceError{Op: "list customers", Err: err}
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `UPDATE customers
		SET
			gender = COALESCE(NULLIF($1, ''), gender),
			first_name = $2,
			last_name = $3,
			birthday = $4,
			street = $5,
			house_number = $6,
			zip_code = $7,
			town = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
		RETURNING ` + customerColumns

	var updated domain.Customer
	err := r.db.QueryRowxContext(ctx, query,
		customer.Gender,
		customer.FirstName,
		customer.LastName,
		customer.Birthday,
		customer.Street,
		customer.HouseNumber,
		customer.ZipCode,
		customer.Town,
		customer.ID,
	).StructScan(&updated)
	if err != nil {
		return nil, translateError("update customer", domain.EntityCustomer, customer.ID, err)
	}
	return &updated, nil
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, customerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		return translateError("delete customer", domain.EntityCustomer, customerID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "delete customer", Err: err}
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.EntityCustomer, customerID)
	}
	return nil
}
