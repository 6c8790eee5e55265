package ride

import (
	"time"

	domainRide "hopon-backend/internal/domain/ride"
)

type CreateRideRequest struct {
	UserID        string `json:"userId" validate:"required"`
	BikeID        string `json:"bikeId" validate:"required"`
	StartLocation string `json:"startLocation" validate:"required"`
	EndLocation   string `json:"endLocation" validate:"required"`
	TimerDuration *int   `json:"timerDuration"`
}

type CompleteRideRequest struct {
	EndLocation string  `json:"endLocation" validate:"required"`
	Rating      *int    `json:"rating"`
	Feedback    *string `json:"feedback"`
}

type RideResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	BikeID         string     `json:"bikeId"`
	StartLocation  string     `json:"startLocation"`
	EndLocation    string     `json:"endLocation"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	Status         string     `json:"status"`
	TimerDuration  int        `json:"timerDuration"`
	ActualDuration *int       `json:"actualDuration"`
	Rating         *int       `json:"rating"`
	Feedback       *string    `json:"feedback"`
	Cost           float64    `json:"cost"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type RouteStatsResponse struct {
	StartLocation string `json:"startLocation"`
	EndLocation   string `json:"endLocation"`
	Count         int    `json:"count"`
}

type StatsResponse struct {
	TotalRides     int                  `json:"totalRides"`
	ActiveRides    int                  `json:"activeRides"`
	CompletedRides int                  `json:"completedRides"`
	PopularRoutes  []RouteStatsResponse `json:"popularRoutes"`
}

func ToRideResponse(r *domainRide.Ride) *RideResponse {
	if r == nil {
		return nil
	}
	return &RideResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		BikeID:         r.BikeID,
		StartLocation:  string(r.StartLocation),
		EndLocation:    string(r.EndLocation),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Status:         string(r.Status),
		TimerDuration:  r.TimerDuration,
		ActualDuration: r.ActualDuration,
		Rating:         r.Rating,
		Feedback:       r.Feedback,
		Cost:           r.Cost,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ToRideResponses(rides []*domainRide.Ride) []*RideResponse {
	responses := make([]*RideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, ToRideResponse(r))
	}
	return responses
}

func ToStatsResponse(s *domainRide.Statistics) *StatsResponse {
	resp := &StatsResponse{
		TotalRides:     s.TotalRides,
		ActiveRides:    s.ActiveRides,
		CompletedRides: s.CompletedRides,
		PopularRoutes:  make([]RouteStatsResponse, 0, len(s.PopularRoutes)),
	}
	for _, route := range s.PopularRoutes {
		resp.PopularRoutes = append(resp.PopularRoutes, RouteStatsResponse{
			StartLocation: string(route.StartLocation),
			EndLocation:   string(route.EndLocation),
			Count:         route.Count,
		})
	}
	return resp
}
