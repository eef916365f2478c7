package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

// NewValidator returns a validator that reports json field names and
// validates decimal amounts by value.
func NewValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			value, _ := amount.Float64()
			return value
		}
		return nil
	}, decimal.Decimal{})

	return validate
}

func toValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		reason := fmt.Sprintf("failed on '%s' rule", fe.Tag())
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed on '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return &domain.ValidationError{Field: fe.Field(), Reason: reason}
	}
	return &domain.ValidationError{Reason: err.Error()}
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: field, Reason: "invalid UUID format"}
	}
	return id, nil
}
