package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeSerializationFailed = "40001"
	codeDeadlockDetected    = "40P01"

	constraintOneOpenRental = "rentals_one_open_per_customer"
	constraintRentalBike    = "rentals_bike_id_fkey"
)

// translateError maps driver errors onto the domain error taxonomy. The
// entity and id describe the row the statement was about.
func translateError(op, entity string, id fmt.Stringer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFound(entity, id)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeNotNullViolation:
			return &domain.ValidationError{Field: pqErr.Column, Reason: "required field is missing"}
		case codeCheckViolation:
			return &domain.ValidationError{Field: pqErr.Column, Reason: fmt.Sprintf("violates %s", pqErr.Constraint)}
		case codeForeignKeyViolation:
			if pqErr.Constraint == constraintRentalBike {
				return &domain.NotFoundError{Entity: domain.EntityBike, ID: pqErr.Detail}
			}
			return &domain.NotFoundError{Entity: domain.EntityCustomer, ID: pqErr.Detail}
		case codeUniqueViolation:
			if pqErr.Constraint == constraintOneOpenRental {
				return &domain.ConflictError{Entity: domain.EntityCustomer, ID: pqErr.Detail, Rule: domain.RuleActiveRentalExists}
			}
			return domain.NewConflict(entity, id, "already exists")
		case codeSerializationFailed, codeDeadlockDetected:
			return domain.NewConcurrency(entity, id)
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
