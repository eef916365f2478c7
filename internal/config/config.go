package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMigrationsDir = "./internal/adapter/postgres/migrations"
	defaultCacheTTL      = 30 * time.Second
)

type (
	Container struct {
		App    *App
		DB     *DB
		HTTP   *HTTP
		Redis  *Redis
		Cache  *Cache
		Rental *Rental
	}

	App struct {
		Name string
		Env  string
	}

	DB struct {
		Host          string
		Port          string
		User          string
		Password      string
		Name          string
		SSLMode       string
		MigrationsDir string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
		DB       int
	}

	Cache struct {
		AvailabilityTTL time.Duration
	}

	Rental struct {
		ConcurrencyRetries int
	}
)

// New reads the configuration from the environment. Outside production a
// .env file is loaded first when present.
func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	app := &App{
		Name: getEnv("APP_NAME", "bike-rental"),
		Env:  getEnv("APP_ENV", "development"),
	}

	db := &DB{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "5432"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("DB_MIGRATIONS_DIR", defaultMigrationsDir),
	}

	http := &HTTP{
		Port:           getEnv("HTTP_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            app.Env,
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	redis := &Redis{
		Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	cacheTTL, err := getEnvDuration("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return nil, err
	}

	retries, err := getEnvInt("RENTAL_CONCURRENCY_RETRIES", 1)
	if err != nil {
		return nil, err
	}

	return &Container{
		App:    app,
		DB:     db,
		HTTP:   http,
		Redis:  redis,
		Cache:  &Cache{AvailabilityTTL: cacheTTL},
		Rental: &Rental{ConcurrencyRetries: retries},
	}, nil
}

// DSN builds the lib/pq connection string.
func (d *DB) DSN() string {
	return "host=" + d.Host +
		" port=" + d.Port +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidValueError{Key: key, Value: value, Err: err}
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &InvalidValueError{Key: key, Value: value, Err: err}
	}
	return d, nil
}

type InvalidValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key + ": " + e.Err.Error()
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
