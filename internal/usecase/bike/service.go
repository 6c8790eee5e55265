package bike

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hopon-backend/internal/config"
	domainBike "hopon-backend/internal/domain/bike"
	"hopon-backend/internal/logger"
	"hopon-backend/internal/metrics"
	appErrors "hopon-backend/pkg/errors"

	"go.uber.org/zap"
)

const defaultCacheTTL = time.Minute

// Cache is the read-through store for single bike lookups.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service implements bike availability use cases
type Service struct {
	bikeRepo domainBike.Repository
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now for booking and return timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(bikeRepo domainBike.Repository, cache Cache, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		bikeRepo: bikeRepo,
		cache:    cache,
		cacheTTL: cfg.Redis.CacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = defaultCacheTTL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(bikeID string) string {
	return fmt.Sprintf("bike:%s", bikeID)
}

// ListAll returns every bike keyed by id.
func (s *Service) ListAll(ctx context.Context) (map[string]*BikeResponse, error) {
	bikes, err := s.bikeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*BikeResponse, len(bikes))
	for _, b := range bikes {
		result[b.ID] = ToBikeResponse(b)
	}
	return result, nil
}

func (s *Service) ListAvailable(ctx context.Context, rawLocation string) ([]*BikeResponse, error) {
	location, err := ValidateLocation(rawLocation)
	if err != nil {
		return nil, err
	}

	bikes, err := s.bikeRepo.ListAvailableAt(ctx, location)
	if err != nil {
		return nil, err
	}

	responses := make([]*BikeResponse, 0, len(bikes))
	for _, b := range bikes {
		responses = append(responses, ToBikeResponse(b))
	}
	return responses, nil
}

func (s *Service) Get(ctx context.Context, bikeID string) (*BikeResponse, error) {
	key := cacheKey(bikeID)

	cached, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Warn("Failed to read bike cache", zap.String("bike_id", bikeID), zap.Error(err))
	case found:
		var resp BikeResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &resp, nil
		}
		logger.Warn("Discarding undecodable bike cache entry", zap.String("bike_id", bikeID))
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	b, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}

	resp := ToBikeResponse(b)
	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			logger.Warn("Failed to cache bike", zap.String("bike_id", bikeID), zap.Error(err))
		}
	}

	return resp, nil
}

// Book takes an available bike for userID; a lost race yields ErrBikeUnavailable.
func (s *Service) Book(ctx context.Context, bikeID, userID string) (*BikeResponse, error) {
	if userID == "" {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "userId is required", nil)
	}

	if err := s.bikeRepo.Book(ctx, bikeID, userID, s.now()); err != nil {
		if errors.Is(err, domainBike.ErrBikeUnavailable) {
			metrics.BookingConflicts.Inc()
			logger.Warn("Booking attempt on unavailable bike",
				zap.String("bike_id", bikeID),
				zap.String("user_id", userID),
				zap.String("event", "bike_booking_conflict"),
			)
		}
		return nil, err
	}
	s.Invalidate(ctx, bikeID)

	b, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}

	logger.Info("Bike booked",
		zap.String("bike_id", bikeID),
		zap.String("user_id", userID),
		zap.String("event", "bike_booked"),
	)

	return ToBikeResponse(b), nil
}

func (s *Service) Return(ctx context.Context, bikeID string, req *ReturnBikeRequest) (*BikeResponse, error) {
	location, condition, err := ValidateReturnRequest(req)
	if err != nil {
		return nil, err
	}

	params := domainBike.ReturnParams{
		Location:   location,
		Condition:  condition,
		ReturnedAt: s.now(),
	}
	if err := s.bikeRepo.Return(ctx, bikeID, params); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, bikeID)

	b, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}

	logger.Info("Bike returned",
		zap.String("bike_id", bikeID),
		zap.String("location", string(location)),
		zap.String("event", "bike_returned"),
	)

	return ToBikeResponse(b), nil
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.bikeRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return ToStatsResponse(stats), nil
}

// Invalidate drops the cached copy of a bike. Callers inside a transaction
// invoke it after commit.
func (s *Service) Invalidate(ctx context.Context, bikeIDs ...string) {
	keys := make([]string, 0, len(bikeIDs))
	for _, id := range bikeIDs {
		keys = append(keys, cacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("Failed to invalidate bike cache",
			zap.Strings("bike_ids", bikeIDs),
			zap.Error(err),
		)
	}
}
