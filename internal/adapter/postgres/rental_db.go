package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

const rentalColumns = `id, customer_id, bike_id, rental_begin, rental_end, total_cost, paid, version`

type RentalRepository struct {
	db *sqlx.DB
}

func NewRentalRepository(db *sqlx.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

// CreateRental inserts the rental in one transaction that locks the customer
// and bike rows first, so concurrent starts for either are serialized.
// Customer is always locked before bike.
func (r *RentalRepository) CreateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "begin create rental", Err: err}
	}
	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.GetContext(ctx, &locked, `SELECT id FROM customers WHERE id = $1 FOR UPDATE`, rental.CustomerID)
	if err != nil {
		return nil, translateError("lock customer", domain.EntityCustomer, rental.CustomerID, err)
	}
	err = tx.GetContext(ctx, &locked, `SELECT id FROM bikes WHERE id = $1 FOR UPDATE`, rental.BikeID)
	if err != nil {
		return nil, translateError("lock bike", domain.EntityBike, rental.BikeID, err)
	}

	var openRentals int
	err = tx.GetContext(ctx, &openRentals,
		`SELECT COUNT(*) FROM rentals WHERE customer_id = $1 AND rental_end IS NULL`,
		rental.CustomerID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "count open rentals", Err: err}
	}
	if openRentals > 0 {
		return nil, domain.NewConflict(domain.EntityCustomer, rental.CustomerID, domain.RuleActiveRentalExists)
	}

	var blocking int
	err = tx.GetContext(ctx, &blocking,
		`SELECT COUNT(*) FROM rentals
		WHERE bike_id = $1
		AND (rental_end IS NULL OR (total_cost > 0 AND NOT paid))`,
		rental.BikeID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "count blocking rentals", Err: err}
	}
	if blocking > 0 {
		return nil, domain.NewConflict(domain.EntityBike, rental.BikeID, domain.RuleBikeNotAvailable)
	}

	created := &domain.Rental{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO rentals (id, customer_id, bike_id, rental_begin, rental_end, total_cost, paid, version)
		VALUES ($1, $2, $3, $4, NULL, NULL, FALSE, $5)
		RETURNING `+rentalColumns,
		rental.ID,
		rental.CustomerID,
		rental.BikeID,
		rental.Begin,
		rental.Version,
	).StructScan(created)
	if err != nil {
		return nil, translateError("create rental", domain.EntityRental, rental.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateError("commit create rental", domain.EntityRental, rental.ID, err)
	}
	return created, nil
}

func (r *RentalRepository) GetRentalByID(ctx context.Context, rentalID uuid.UUID) (*domain.Rental, error) {
	rental := &domain.Rental{}
	err := r.db.GetContext(ctx, rental, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, rentalID)
	if err != nil {
		return nil, translateError("get rental", domain.EntityRental, rentalID, err)
	}
	return rental, nil
}

func (r *RentalRepository) GetRentalsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Rental, error) {
	return r.ListRentals(ctx, domain.RentalFilter{CustomerID: customerID})
}

func (r *RentalRepository) GetRentalsByBikeID(ctx context.Context, bikeID uuid.UUID) ([]*domain.Rental, error) {
	return r.ListRentals(ctx, domain.RentalFilter{BikeID: bikeID})
}

// ListRentals returns the rentals matching filter, oldest first.
func (r *RentalRepository) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	stmt := dialect.
		From("rentals").
		Select("id", "customer_id", "bike_id", "rental_begin", "rental_end", "total_cost", "paid", "version").
		Order(goqu.I("rental_begin").Asc(), goqu.I("id").Asc())

	if filter.CustomerID != uuid.Nil {
		stmt = stmt.Where(goqu.C("customer_id").Eq(filter.CustomerID.String()))
	}
	if filter.BikeID != uuid.Nil {
		stmt = stmt.Where(goqu.C("bike_id").Eq(filter.BikeID.String()))
	}
	if filter.OpenOnly {
		stmt = stmt.Where(goqu.C("rental_end").IsNull())
	}

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "build list rentals", Err: err}
	}

	rentals := []*domain.Rental{}
	if err := r.db.SelectContext(ctx, &rentals, query, args...); err != nil {
		return nil, &domain.PersistenceError{Op: "list rentals", Err: err}
	}
	return rentals, nil
}

func (r *RentalRepository) ListUnpaidRentals(ctx context.Context) ([]*domain.UnpaidRental, error) {
	query := `SELECT
			c.id AS customer_id,
			c.first_name,
			c.last_name,
			r.id AS rental_id,
			r.rental_begin,
			r.rental_end,
			r.total_cost
		FROM rentals r
		JOIN customers c ON c.id = r.customer_id
		WHERE r.rental_end IS NOT NULL
		AND r.total_cost > 0
		AND NOT r.paid
		ORDER BY c.last_name, c.first_name, r.rental_begin`

	unpaid := []*domain.UnpaidRental{}
	if err := r.db.SelectContext(ctx, &unpaid, query); err != nil {
		return nil, &domain.PersistenceError{Op: "list unpaid rentals", Err: err}
	}
	return unpaid, nil
}

// UpdateRental writes end, cost and paid only if the stored version is
// unchanged since the rental was read.
func (r *RentalRepository) UpdateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	query := `UPDATE rentals
		SET
			rental_end = $1,
			total_cost = $2,
			paid = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING ` + rentalColumns

	updated := &domain.Rental{}
	err := r.db.QueryRowxContext(ctx, query,
		rental.End,
		rental.TotalCost,
		rental.Paid,
		rental.ID,
		rental.Version,
	).StructScan(updated)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM rentals WHERE id = $1)`, rental.ID); err != nil {
			return nil, &domain.PersistenceError{Op: "check rental", Err: err}
		}
		if !exists {
			return nil, domain.NewNotFound(domain.EntityRental, rental.ID)
		}
		return nil, domain.NewConcurrency(domain.EntityRental, rental.ID)
	}
	if err != nil {
		return nil, translateError("update rental", domain.EntityRental, rental.ID, err)
	}
	return updated, nil
}

func (r *RentalRepository) DeleteRental(ctx context.Context, rentalID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, rentalID)
	if err != nil {
		return translateError("delete rental", domain.EntityRental, rentalID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "delete rental", Err: err}
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.EntityRental, rentalID)
	}
	return nil
}
