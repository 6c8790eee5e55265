package ride

import (
	"fmt"
	"math"
	"time"

	"hopon-backend/internal/domain/bike"
	appErrors "hopon-backend/pkg/errors"
)

// Status represents the lifecycle state of a ride
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// ValidateTransition checks if moving from current to next is allowed
func ValidateTransition(current, next Status) error {
	allowed, exists := validTransitions[current]
	if !exists {
		return appErrors.NewAppError(appErrors.CodeInvalidState,
			fmt.Sprintf("unknown ride status: %s", current), appErrors.ErrInvalidTransition)
	}

	for _, s := range allowed {
		if s == next {
			return nil
		}
	}

	return appErrors.NewAppError(appErrors.CodeInvalidState,
		fmt.Sprintf("cannot transition ride from %s to %s", current, next), ErrRideNotActive)
}

// Ride is one booking from pickup to return
type Ride struct {
	ID             string
	UserID         string
	BikeID         string
	StartLocation  bike.Location
	EndLocation    bike.Location
	StartTime      time.Time
	EndTime        *time.Time
	Status         Status
	TimerDuration  int
	ActualDuration *int
	Rating         *int
	Feedback       *string
	Cost           float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CalculateDuration returns the elapsed time in whole minutes, rounded half up.
func CalculateDuration(start, end time.Time) int {
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		return 0
	}
	return int(math.Floor(minutes + 0.5))
}

// CompleteParams carries the fields written when a ride finishes
type CompleteParams struct {
	EndLocation    bike.Location
	EndTime        time.Time
	ActualDuration int
	Rating         *int
	Feedback       *string
}

type RouteStats struct {
	StartLocation bike.Location
	EndLocation   bike.Location
	Count         int
}

type Statistics struct {
	TotalRides     int
	ActiveRides    int
	CompletedRides int
	PopularRoutes  []RouteStats
}

type Filter struct {
	UserID *string
	Status *Status
}
