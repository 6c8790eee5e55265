package ride

import (
	"context"
	"errors"
	"time"

	"hopon-backend/internal/config"
	domainBike "hopon-backend/internal/domain/bike"
	domainRide "hopon-backend/internal/domain/ride"
	domainUser "hopon-backend/internal/domain/user"
	"hopon-backend/internal/logger"
	"hopon-backend/internal/metrics"
	"hopon-backend/pkg/utils"

	"go.uber.org/zap"
)

// Transactor runs fn atomically; repositories join through ctx.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	PublishRideEvent(ctx context.Context, evt domainRide.Event) error
}

// BikeInvalidator drops cached bike reads after a committed change.
type BikeInvalidator interface {
	Invalidate(ctx context.Context, bikeIDs ...string)
}

// Service implements the ride lifecycle: active -> completed | cancelled.
type Service struct {
	rideRepo domainRide.Repository
	bikeRepo domainBike.Repository
	userRepo domainUser.Repository
	tx       Transactor
	bikes    BikeInvalidator
	events   EventPublisher
	cfg      config.RideConfig
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	rideRepo domainRide.Repository,
	bikeRepo domainBike.Repository,
	userRepo domainUser.Repository,
	tx Transactor,
	bikes BikeInvalidator,
	events EventPublisher,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		rideRepo: rideRepo,
		bikeRepo: bikeRepo,
		userRepo: userRepo,
		tx:       tx,
		bikes:    bikes,
		events:   events,
		cfg:      cfg.Ride,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRide starts a ride and books the bike in the same transaction. A bike
// already booked by the same user is accepted.
func (s *Service) CreateRide(ctx context.Context, req *CreateRideRequest) (*RideResponse, error) {
	start, end, err := validateCreateRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	r := &domainRide.Ride{
		ID:            utils.NewRideID(now),
		UserID:        req.UserID,
		BikeID:        req.BikeID,
		StartLocation: start,
		EndLocation:   end,
		StartTime:     now,
		Status:        domainRide.StatusActive,
		TimerDuration: ClampTimer(req.TimerDuration, s.cfg),
		Cost:          0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, r.UserID); err != nil {
			return err
		}

		if _, err := s.rideRepo.GetActiveByUser(ctx, r.UserID); err == nil {
			return domainRide.ErrActiveRideExists
		} else if !errors.Is(err, domainRide.ErrRideNotFound) {
			return err
		}

		b, err := s.bikeRepo.GetByID(ctx, r.BikeID)
		if err != nil {
			return err
		}

		switch {
		case b.IsAvailable:
			if err := s.bikeRepo.Book(ctx, b.ID, r.UserID, now); err != nil {
				return err
			}
		case b.BookedBy(r.UserID):
			// booked through /bikes/:id/book first
		case s.cfg.StrictAvailability:
			return domainBike.ErrBikeUnavailable
		default:
			logger.Warn("Starting ride on a bike held by another user",
				zap.String("bike_id", b.ID),
				zap.String("user_id", r.UserID),
				zap.String("event", "ride_availability_bypassed"),
			)
			if err := s.bikeRepo.Reassign(ctx, b.ID, r.UserID, now); err != nil {
				return err
			}
		}

		return s.rideRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.bikes.Invalidate(ctx, r.BikeID)
	s.afterTransition(ctx, domainRide.EventStarted, r, r.StartLocation, now)

	logger.Info("Ride started",
		zap.String("ride_id", r.ID),
		zap.String("user_id", r.UserID),
		zap.String("bike_id", r.BikeID),
		zap.Int("timer_minutes", r.TimerDuration),
		zap.String("event", "ride_started"),
	)

	return ToRideResponse(r), nil
}

// CompleteRide ends an active ride, returns the bike at the end location and
// credits the rider, all in one transaction.
func (s *Service) CompleteRide(ctx context.Context, rideID string, req *CompleteRideRequest) (*RideResponse, error) {
	end, err := validateCompleteRequest(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var completed *domainRide.Ride

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.rideRepo.GetByID(ctx, rideID)
		if err != nil {
			return err
		}
		if err := domainRide.ValidateTransition(r.Status, domainRide.StatusCompleted); err != nil {
			return err
		}

		params := domainRide.CompleteParams{
			EndLocation:    end,
			EndTime:        now,
			ActualDuration: domainRide.CalculateDuration(r.StartTime, now),
			Rating:         req.Rating,
			Feedback:       req.Feedback,
		}
		if err := s.rideRepo.Complete(ctx, rideID, params); err != nil {
			return err
		}

		if err := s.bikeRepo.Return(ctx, r.BikeID, domainBike.ReturnParams{
			Location:   end,
			ReturnedAt: now,
		}); err != nil {
			return err
		}

		if err := s.userRepo.IncrementTotalRides(ctx, r.UserID); err != nil {
			return err
		}

		completed, err = s.rideRepo.GetByID(ctx, rideID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bikes.Invalidate(ctx, completed.BikeID)
	s.afterTransition(ctx, domainRide.EventCompleted, completed, end, now)
	if completed.ActualDuration != nil {
		metrics.RideDuration.Observe(float64(*completed.ActualDuration))
	}

	logger.Info("Ride completed",
		zap.String("ride_id", completed.ID),
		zap.String("user_id", completed.UserID),
		zap.String("bike_id", completed.BikeID),
		zap.String("end_location", string(end)),
		zap.String("event", "ride_completed"),
	)

	return ToRideResponse(completed), nil
}

// CancelRide ends an active ride and frees the bike where it stands.
func (s *Service) CancelRide(ctx context.Context, rideID string) (*RideResponse, error) {
	now := s.now()
	var cancelled *domainRide.Ride

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.rideRepo.GetByID(ctx, rideID)
		if err != nil {
			return err
		}
		if err := domainRide.ValidateTransition(r.Status, domainRide.StatusCancelled); err != nil {
			return err
		}

		if err := s.rideRepo.Cancel(ctx, rideID, now); err != nil {
			return err
		}
		if err := s.bikeRepo.Release(ctx, r.BikeID, now); err != nil {
			return err
		}

		cancelled, err = s.rideRepo.GetByID(ctx, rideID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bikes.Invalidate(ctx, cancelled.BikeID)
	s.afterTransition(ctx, domainRide.EventCancelled, cancelled, cancelled.StartLocation, now)

	logger.Info("Ride cancelled",
		zap.String("ride_id", cancelled.ID),
		zap.String("user_id", cancelled.UserID),
		zap.String("bike_id", cancelled.BikeID),
		zap.String("event", "ride_cancelled"),
	)

	return ToRideResponse(cancelled), nil
}

// GetActiveRide returns nil when the user has no active ride.
func (s *Service) GetActiveRide(ctx context.Context, userID string) (*RideResponse, error) {
	r, err := s.rideRepo.GetActiveByUser(ctx, userID)
	if errors.Is(err, domainRide.ErrRideNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToRideResponse(r), nil
}

func (s *Service) ListRides(ctx context.Context) ([]*RideResponse, error) {
	rides, err := s.rideRepo.List(ctx, domainRide.Filter{})
	if err != nil {
		return nil, err
	}
	return ToRideResponses(rides), nil
}

func (s *Service) ListUserRides(ctx context.Context, userID string) ([]*RideResponse, error) {
	rides, err := s.rideRepo.List(ctx, domainRide.Filter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return ToRideResponses(rides), nil
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.rideRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return ToStatsResponse(stats), nil
}

func (s *Service) afterTransition(ctx context.Context, t domainRide.EventType, r *domainRide.Ride, location domainBike.Location, at time.Time) {
	metrics.RideTransitions.WithLabelValues(string(t)).Inc()

	if err := s.events.PublishRideEvent(ctx, domainRide.NewEvent(t, r, location, at)); err != nil {
		logger.Warn("Failed to publish ride event",
			zap.String("ride_id", r.ID),
			zap.String("type", string(t)),
			zap.Error(err),
		)
	}
}
