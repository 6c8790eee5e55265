package user

import "context"

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// IncrementTotalRides is the only writer of TotalRides.
	IncrementTotalRides(ctx context.Context, userID string) error
}
