package bike

import (
	"time"

	domainBike "hopon-backend/internal/domain/bike"
)

type BookBikeRequest struct {
	UserID string `json:"userId"`
}

type ReturnBikeRequest struct {
	NewLocation string  `json:"newLocation" validate:"required"`
	Condition   *string `json:"condition"`
}

type BikeResponse struct {
	ID              string     `json:"id"`
	Number          int        `json:"number"`
	Location        string     `json:"location"`
	IsAvailable     bool       `json:"isAvailable"`
	Condition       string     `json:"condition"`
	LastMaintenance time.Time  `json:"lastMaintenance"`
	BatteryLevel    int        `json:"batteryLevel"`
	TotalRides      int        `json:"totalRides"`
	Rating          float64    `json:"rating"`
	CurrentUser     *string    `json:"currentUser"`
	BookedAt        *time.Time `json:"bookedAt"`
	ReturnedAt      *time.Time `json:"returnedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type LocationStatsResponse struct {
	Location  string `json:"location"`
	Count     int    `json:"count"`
	Available int    `json:"available"`
}

type StatsResponse struct {
	TotalBikes      int                     `json:"totalBikes"`
	AvailableBikes  int                     `json:"availableBikes"`
	BusyBikes       int                     `json:"busyBikes"`
	BikesByLocation []LocationStatsResponse `json:"bikesByLocation"`
}

func ToBikeResponse(b *domainBike.Bike) *BikeResponse {
	if b == nil {
		return nil
	}
	return &BikeResponse{
		ID:              b.ID,
		Number:          b.Number,
		Location:        string(b.Location),
		IsAvailable:     b.IsAvailable,
		Condition:       string(b.Condition),
		LastMaintenance: b.LastMaintenance,
		BatteryLevel:    b.BatteryLevel,
		TotalRides:      b.TotalRides,
		Rating:          b.Rating,
		CurrentUser:     b.CurrentUser,
		BookedAt:        b.BookedAt,
		ReturnedAt:      b.ReturnedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToStatsResponse(s *domainBike.Statistics) *StatsResponse {
	resp := &StatsResponse{
		TotalBikes:      s.TotalBikes,
		AvailableBikes:  s.AvailableBikes,
		BusyBikes:       s.BusyBikes,
		BikesByLocation: make([]LocationStatsResponse, 0, len(s.BikesByLocation)),
	}
	for _, l := range s.BikesByLocation {
		resp.BikesByLocation = append(resp.BikesByLocation, LocationStatsResponse{
			Location:  string(l.Location),
			Count:     l.Count,
			Available: l.Available,
		})
	}
	return resp
}
