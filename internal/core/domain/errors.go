package domain

import (
	"fmt"
)

const (
	EntityBike     = "bike"
	EntityCustomer = "customer"
	EntityRental   = "rental"
)

const (
	RuleActiveRentalExists = "active rental exists"
	RuleBikeNotAvailable   = "bike is not available"
	RuleRentalAlreadyEnded = "rental already ended"
)

// ValidationError is returned when the caller supplied a field the server must
// compute, or a field that fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

type ConflictError struct {
	Entity string
	ID     string
	Rule   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Rule)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConcurrencyError signals a lost update detected by the store.
type ConcurrencyError struct {
	Entity string
	ID     string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewNotFound(entity string, id fmt.Stringer) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

func NewConflict(entity string, id fmt.Stringer, rule string) error {
	return &ConflictError{Entity: entity, ID: id.String(), Rule: rule}
}

func NewConcurrency(entity string, id fmt.Stringer) error {
	return &ConcurrencyError{Entity: entity, ID: id.String()}
}
