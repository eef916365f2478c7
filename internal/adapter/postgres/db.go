package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

const dialectPostgres = "postgres"

var dialect = goqu.Dialect(dialectPostgres)

var (
	_ ports.BikeRepository     = (*BikeRepository)(nil)
	_ ports.CustomerRepository = (*CustomerRepository)(nil)
	_ ports.RentalRepository   = (*RentalRepository)(nil)
)

// Open connects to postgres through lib/pq and checks the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies every pending goose migration in dir.
func Migrate(db *sqlx.DB, dir string) error {
	if err := goose.SetDialect(dialectPostgres); err != nil {
		return err
	}
	if err := goose.Up(db.DB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
