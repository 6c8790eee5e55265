package bike

import (
	"context"
	"time"
)

type ReturnParams struct {
	Location   Location
	Condition  *Condition
	ReturnedAt time.Time
}

// Repository defines the persistence operations for the fleet
type Repository interface {
	CreateBatch(ctx context.Context, bikes []*Bike) error
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, bikeID string) (*Bike, error)
	List(ctx context.Context) ([]*Bike, error)
	ListAvailableAt(ctx context.Context, location Location) ([]*Bike, error)

	// Book marks the bike taken only if it is still available. It returns
	// ErrBikeNotFound or ErrBikeUnavailable when it does not apply.
	Book(ctx context.Context, bikeID, userID string, bookedAt time.Time) error
	Return(ctx context.Context, bikeID string, params ReturnParams) error
	// Reassign hands a held bike to userID regardless of its current holder.
	Reassign(ctx context.Context, bikeID, userID string, at time.Time) error
	// Release frees the bike in place without counting a ride.
	Release(ctx context.Context, bikeID string, at time.Time) error

	Stats(ctx context.Context) (*Statistics, error)
}
