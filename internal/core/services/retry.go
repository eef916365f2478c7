package services

import (
	"context"
	"errors"

	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
)

const defaultConcurrencyRetries = 1

// RetryableFunc is one attempt of a read-modify-write against a single row.
type RetryableFunc func(ctx context.Context) error

// retryOnConcurrency runs fn and retries it after a lost update. Before each
// retry exists re-checks the target, so a row deleted in the meantime surfaces
// as its not-found error instead of another concurrency error.
func retryOnConcurrency(ctx context.Context, retries int, fn RetryableFunc, exists RetryableFunc) error {
	err := fn(ctx)

	for attempt := 0; attempt < retries && isConcurrencyError(err); attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if existsErr := exists(ctx); existsErr != nil {
			return existsErr
		}
		err = fn(ctx)
	}

	return err
}

func isConcurrencyError(err error) bool {
	var concurrencyErr *domain.ConcurrencyError
	return errors.As(err, &concurrencyErr)
}
