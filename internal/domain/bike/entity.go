package bike

import (
	"time"

	appErrors "hopon-backend/pkg/errors"
)

// Location is one of the fixed campus docking points
type Location string

const (
	LocationAB1         Location = "AB1"
	LocationAB2         Location = "AB2"
	LocationBoysHostel  Location = "BOYS HOSTEL"
	LocationGirlsHostel Location = "GIRLS HOSTEL"
)

var Locations = []Location{LocationAB1, LocationAB2, LocationBoysHostel, LocationGirlsHostel}

func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

func ParseLocation(s string) (Location, error) {
	l := Location(s)
	if !l.Valid() {
		return "", appErrors.ErrInvalidLocation
	}
	return l, nil
}

type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}

func ParseCondition(s string) (Condition, error) {
	c := Condition(s)
	if !c.Valid() {
		return "", appErrors.ErrInvalidCondition
	}
	return c, nil
}

// Bike represents a fleet bicycle.
// IsAvailable is false exactly while CurrentUser holds it.
type Bike struct {
	ID              string
	Number          int
	Location        Location
	IsAvailable     bool
	Condition       Condition
	LastMaintenance time.Time
	BatteryLevel    int
	TotalRides      int
	Rating          float64
	CurrentUser     *string
	BookedAt        *time.Time
	ReturnedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookedBy reports whether userID currently holds the bike.
func (b *Bike) BookedBy(userID string) bool {
	return !b.IsAvailable && b.CurrentUser != nil && *b.CurrentUser == userID
}

type LocationStats struct {
	Location  Location
	Count     int
	Available int
}

type Statistics struct {
	TotalBikes      int
	AvailableBikes  int
	BusyBikes       int
	BikesByLocation []LocationStats
}
