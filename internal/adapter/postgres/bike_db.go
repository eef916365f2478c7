package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

const bikeColumns = `id, brand, purchase_date, last_service, category, notes,
	price_first_hour, price_additional_hours, created_at, updated_at`

type BikeRepository struct {
	db *sqlx.DB
}

func NewBikeRepository(db *sqlx.DB) *BikeRepository {
	return &BikeRepository{
		db: db,
	}
}

func (r *BikeRepository) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	query := `INSERT INTO bikes (id, brand, purchase_date, last_service, category, notes, price_first_hour, price_additional_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		bike.ID,
		bike.Brand,
		bike.PurchaseDate,
		bike.LastService,
		bike.Category,
		bike.Notes,
		bike.PriceFirstHour,
		bike.PriceAdditionalHours,
	).Scan(
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		return nil, translateError("create bike", domain.EntityBike, bike.ID, err)
	}
	return bike, nil
}

func (r *BikeRepository) GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE id = $1`

	bike := &domain.Bike{}
	if err := r.db.GetContext(ctx, bike, query, bikeID); err != nil {
		return nil, translateError("get bike", domain.EntityBike, bikeID, err)
	}
	return bike, nil
}

// ListBikes returns the fleet in catalog order.
func (r *BikeRepository) ListBikes(ctx context.Context) ([]*domain.Bike, error) {
	query, args, err := dialect.
		From("bikes").
		Select(
			"id", "brand", "purchase_date", "last_service", "category", "notes",
			"price_first_hour", "price_additional_hours", "created_at", "updated_at",
		).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "build list bikes", Err: err}
	}

	bikes := []*domain.Bike{}
	if err := r.db.SelectContext(ctx, &bikes, query, args...); err != nil {
		return nil, &domain.PersistenceError{Op: "list bikes", Err: err}
	}
	return bikes, nil
}

func (r *BikeRepository) UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	query := `UPDATE bikes
		SET
			brand = $1,
			purchase_date = $2,
			last_service = $3,
			category = $4,
			notes = $5,
			price_first_hour = $6,
			price_additional_hours = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + bikeColumns

	updated := &domain.Bike{}
	err := r.db.QueryRowxContext(ctx, query,
		bike.Brand,
		bike.PurchaseDate,
		bike.LastService,
		bike.Category,
		bike.Notes,
		bike.PriceFirstHour,
		bike.PriceAdditionalHours,
		bike.ID,
	).StructScan(updated)
	if err != nil {
		return nil, translateError("update bike", domain.EntityBike, bike.ID, err)
	}
	return updated, nil
}

// DeleteBike removes the bike. Its rentals go with it through ON DELETE CASCADE.
func (r *BikeRepository) DeleteBike(ctx context.Context, bikeID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bikes WHERE id = $1`, bikeID)
	if err != nil {
		return translateError("delete bike", domain.EntityBike, bikeID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "delete bike", Err: err}
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.EntityBike, bikeID)
	}
	return nil
}
