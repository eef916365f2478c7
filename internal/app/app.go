package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/jmoiron/sqlx"
	redisClient "github.com/redis/go-redis/v9"
	"github.com/sm8ta/webike_rental_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/webike_rental_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_microservice/internal/adapter/postgres"
	"github.com/sm8ta/webike_rental_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/webike_rental_microservice/internal/adapter/redis"
	"github.com/sm8ta/webike_rental_microservice/internal/config"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
	"github.com/sm8ta/webike_rental_microservice/internal/core/services"
)

type App struct {
	Config       *config.Container
	Logger       ports.LoggerPort
	DB           *sqlx.DB
	RedisClient  *redisClient.Client
	RedisAdapter ports.CachePort
	HTTPRouter   *http.Router
	HTTPServer   *nethttp.Server
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	const op = "app.New"

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("%s: failed to connect to Redis: %w", op, err)
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect DB
	db, err := postgres.Open(ctx, cfg.DB.DSN())
	if err != nil {
		redisConn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Migrate DB
	if err := postgres.Migrate(db, cfg.DB.MigrationsDir); err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Validate
	validate := services.NewValidator()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Repositories
	bikeRepo := postgres.NewBikeRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	rentalRepo := postgres.NewRentalRepository(db)

	// Services
	bikeService := services.NewBikeService(bikeRepo, rentalRepo, loggerAdapter, validate, cacheAdapter, cfg.Cache.AvailabilityTTL)
	customerService := services.NewCustomerService(customerRepo, rentalRepo, loggerAdapter, validate, cacheAdapter)
	rentalService := services.NewRentalService(rentalRepo, bikeRepo, customerRepo, loggerAdapter, cacheAdapter,
		services.WithConcurrencyRetries(cfg.Rental.ConcurrencyRetries),
	)
	paymentService := services.NewPaymentService(rentalRepo, loggerAdapter, cacheAdapter)

	// HTTP Handlers
	bikeHandler := http.NewBikeHandler(bikeService, loggerAdapter, metrics)
	customerHandler := http.NewCustomerHandler(customerService, loggerAdapter, metrics)
	rentalHandler := http.NewRentalHandler(rentalService, paymentService, loggerAdapter, metrics)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		bikeHandler,
		customerHandler,
		rentalHandler,
	)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("%s: failed to initialize router: %w", op, err)
	}

	return &App{
		Config:       cfg,
		Logger:       loggerAdapter,
		DB:           db,
		RedisClient:  redisConn,
		RedisAdapter: cacheAdapter,
		HTTPRouter:   router,
		HTTPServer: &nethttp.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.HTTP.URL, cfg.HTTP.Port),
			Handler:           router.Engine(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until Stop is called.
func (a *App) Run() error {
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": a.HTTPServer.Addr,
	})

	if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stop drains in-flight requests, then closes the database and Redis.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	var errs []error

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		errs = append(errs, err)
	}

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
		errs = append(errs, err)
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
		errs = append(errs, err)
	}

	a.Logger.Info("Application stopped", nil)
	return errors.Join(errs...)
}
