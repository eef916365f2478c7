package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	Male    Gender = "male"
	Female  Gender = "female"
	Unknown Gender = "unknown"
)

type Customer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Gender      Gender    `json:"gender" db:"gender" validate:"omitempty,oneof=male female unknown"`
	FirstName   string    `json:"first_name" db:"first_name" validate:"required,max=50"`
	LastName    string    `json:"last_name" db:"last_name" validate:"required,max=75"`
	Birthday    time.Time `json:"birthday" db:"birthday"`
	Street      string    `json:"street" db:"street" validate:"max=75"`
	HouseNumber string    `json:"house_number" db:"house_number" validate:"max=10"`
	ZipCode     string    `json:"zip_code" db:"zip_code" validate:"max=10"`
	Town        string    `json:"town" db:"town" validate:"max=75"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
