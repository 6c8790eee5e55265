package ride

import (
	"time"

	"hopon-backend/internal/domain/bike"
)

type EventType string

const (
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventCancelled EventType = "cancelled"
)

// Event is emitted after a lifecycle change has been committed.
type Event struct {
	Type       EventType
	RideID     string
	UserID     string
	BikeID     string
	Location   bike.Location
	Status     Status
	OccurredAt time.Time
}

func NewEvent(t EventType, r *Ride, location bike.Location, at time.Time) Event {
	return Event{
		Type:       t,
		RideID:     r.ID,
		UserID:     r.UserID,
		BikeID:     r.BikeID,
		Location:   location,
		Status:     r.Status,
		OccurredAt: at,
	}
}
