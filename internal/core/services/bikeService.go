package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sm8ta/webike_rental_microservice/internal/core/domain"
	"github.com/sm8ta/webike_rental_microservice/internal/core/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	bikeCacheTTL                = 15 * time.Minute
	defaultAvailabilityCacheTTL = 30 * time.Second
)

type BikeService struct {
	bikeRepo        ports.BikeRepository
	rentalRepo      ports.RentalRepository
	logger          ports.LoggerPort
	validate        *validator.Validate
	cache           ports.CachePort
	availabilityTTL time.Duration
}

func NewBikeService(
	bikeRepo ports.BikeRepository,
	rentalRepo ports.RentalRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	availabilityTTL time.Duration,
) *BikeService {
	if availabilityTTL <= 0 {
		availabilityTTL = defaultAvailabilityCacheTTL
	}
	return &BikeService{
		bikeRepo:        bikeRepo,
		rentalRepo:      rentalRepo,
		logger:          logger,
		validate:        validate,
		cache:           cache,
		availabilityTTL: availabilityTTL,
	}
}

func bikeCacheKey(bikeID string) string {
	return fmt.Sprintf("bike:%s", bikeID)
}

const availabilityGenerationKey = "bikes:available:generation"

func availabilityCacheKey(generation int64, key domain.SortKey) string {
	if key == domain.SortCatalog {
		return fmt.Sprintf("bikes:available:%d:catalog", generation)
	}
	return fmt.Sprintf("bikes:available:%d:%s", generation, key)
}

// availabilityGeneration reads the current listing generation. A missing
// counter is generation 0. ok is false when the cache cannot be trusted.
func availabilityGeneration(cache ports.CachePort) (generation int64, ok bool) {
	data, err := cache.Get(availabilityGenerationKey)
	if err != nil {
		return 0, errors.Is(err, ports.ErrCacheMiss)
	}
	generation, err = strconv.ParseInt(string(data), 10, 64)
	return generation, err == nil
}

// invalidateAvailability moves the available-bikes listing to a new
// generation. Listings computed under an older generation are never read again.
func invalidateAvailability(cache ports.CachePort, logger ports.LoggerPort) {
	if _, err := cache.Incr(availabilityGenerationKey); err != nil {
		logger.Warn("Failed to invalidate availability cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *BikeService) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	if err := s.validate.Struct(bike); err != nil {
		s.logger.Error("Bike validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, toValidationError(err)
	}

	if bike.ID == uuid.Nil {
		bike.ID = uuid.New()
	}

	createdBike, err := s.bikeRepo.CreateBike(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to create bike", map[string]interface{}{
			"error": err.Error(),
			"brand": bike.Brand,
		})
		return nil, err
	}

	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Bike created successfully", map[string]interface{}{
		"bike_id": createdBike.ID,
	})

	return createdBike, nil
}

func (s *BikeService) GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error) {
	bikeUUID, err := parseID("bike_id", bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
		})
		return nil, err
	}

	cacheKey := bikeCacheKey(bikeID)
	cachedData, err := s.cache.Get(cacheKey)
	if err == nil {
		var cachedBike domain.Bike
		if err := json.Unmarshal(cachedData, &cachedBike); err == nil {
			s.logger.Debug("Bike found in cache", map[string]interface{}{
				"bike_id": bikeID,
			})
			return &cachedBike, nil
		}
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, bikeUUID)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}

	bikeData, err := json.Marshal(bike)
	if err != nil {
		s.logger.Warn("Failed to marshal bike for cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	} else if err := s.cache.Set(cacheKey, bikeData, bikeCacheTTL); err != nil {
		s.logger.Warn("Failed to cache bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}

	return bike, nil
}

func (s *BikeService) ListBikes(ctx context.Context) ([]*domain.Bike, error) {
	bikes, err := s.bikeRepo.ListBikes(ctx)
	if err != nil {
		s.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return bikes, nil
}

// ListAvailableBikes returns the bikes that can be rented right now.
func (s *BikeService) ListAvailableBikes(ctx context.Context, key domain.SortKey) ([]*domain.Bike, error) {
	if !key.Known() {
		key = domain.SortCatalog
	}

	// The generation is read before the snapshot so a rental change racing
	// with this listing leaves its result under a stale key.
	generation, cacheable := availabilityGeneration(s.cache)
	cacheKey := availabilityCacheKey(generation, key)
	if cacheable {
		if cachedData, err := s.cache.Get(cacheKey); err == nil {
			var cachedBikes []*domain.Bike
			if err := json.Unmarshal(cachedData, &cachedBikes); err == nil {
				return cachedBikes, nil
			}
		}
	}

	bikes, err := s.bikeRepo.ListBikes(ctx)
	if err != nil {
		s.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	rentals, err := s.rentalRepo.ListRentals(ctx, domain.RentalFilter{})
	if err != nil {
		s.logger.Error("Failed to list rentals", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	available := FilterAvailableBikes(bikes, rentals, key)

	if data, err := json.Marshal(available); cacheable && err == nil {
		if err := s.cache.Set(cacheKey, data, s.availabilityTTL); err != nil {
			s.logger.Warn("Failed to cache available bikes", map[string]interface{}{
				"error":    err.Error(),
				"sort_key": string(key),
			})
		}
	}

	s.logger.Info("Retrieved available bikes", map[string]interface{}{
		"sort_key":    string(key),
		"bikes_count": len(available),
		"fleet_size":  len(bikes),
	})

	return available, nil
}

func (s *BikeService) UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	if err := s.validate.Struct(bike); err != nil {
		s.logger.Error("Bike validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, toValidationError(err)
	}

	updatedBike, err := s.bikeRepo.UpdateBike(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to update bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.ID,
		})
		return nil, err
	}

	if err := s.cache.Delete(bikeCacheKey(bike.ID.String())); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.ID.String(),
		})
	}
	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Bike updated successfully", map[string]interface{}{
		"bike_id": bike.ID,
	})

	return updatedBike, nil
}

// DeleteBike removes the bike together with its rentals.
func (s *BikeService) DeleteBike(ctx context.Context, bikeID string) error {
	bikeUUID, err := parseID("bike_id", bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
		})
		return err
	}

	if err := s.bikeRepo.DeleteBike(ctx, bikeUUID); err != nil {
		s.logger.Error("Failed to delete bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return err
	}

	if err := s.cache.Delete(bikeCacheKey(bikeID)); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}
	invalidateAvailability(s.cache, s.logger)

	s.logger.Info("Bike deleted successfully", map[string]interface{}{
		"bike_id": bikeID,
	})

	return nil
}
