package ride

import (
	"context"
	"time"
)

// Repository defines the persistence operations for rides
type Repository interface {
	Create(ctx context.Context, ride *Ride) error
	GetByID(ctx context.Context, rideID string) (*Ride, error)
	// GetActiveByUser returns ErrRideNotFound when the user has no active ride.
	GetActiveByUser(ctx context.Context, userID string) (*Ride, error)
	List(ctx context.Context, filter Filter) ([]*Ride, error)

	// Complete and Cancel only touch rides still active and return
	// ErrRideNotActive otherwise.
	Complete(ctx context.Context, rideID string, params CompleteParams) error
	Cancel(ctx context.Context, rideID string, endTime time.Time) error

	Stats(ctx context.Context) (*Statistics, error)
}
