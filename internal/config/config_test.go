package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("DB_MIGRATIONS_DIR", "")
	t.Setenv("RENTAL_CONCURRENCY_RETRIES", "")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Cache.AvailabilityTTL)
	assert.Equal(t, defaultMigrationsDir, cfg.DB.MigrationsDir)
	assert.Equal(t, 1, cfg.Rental.ConcurrencyRetries)
	assert.Equal(t, "production", cfg.HTTP.Env)
}

func Test_New_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "rental")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "rentals")
	t.Setenv("REDIS_DB", "3")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Cache.AvailabilityTTL)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "host=db port=6543 user=rental password=secret dbname=rentals sslmode=disable", cfg.DB.DSN())
}

func Test_New_RejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CACHE_TTL", "soon")

	_, err := New()

	var invalid *InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "CACHE_TTL", invalid.Key)
}

func Test_New_MissingDotEnvIsFine(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Chdir(t.TempDir())

	_, err := New()

	assert.NoError(t, err)
}
