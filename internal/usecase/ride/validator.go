package ride

import (
	"strings"

	"hopon-backend/internal/config"
	domainBike "hopon-backend/internal/domain/bike"
	domainRide "hopon-backend/internal/domain/ride"
	appErrors "hopon-backend/pkg/errors"
	"hopon-backend/pkg/utils"
)

const (
	minRating = 1
	maxRating = 5
)

// ClampTimer applies the default and bounds the advisory timer to [TimerMin, TimerMax].
func ClampTimer(requested *int, cfg config.RideConfig) int {
	if requested == nil {
		return cfg.TimerDefault
	}
	switch minutes := *requested; {
	case minutes < cfg.TimerMin:
		return cfg.TimerMin
	case minutes > cfg.TimerMax:
		return cfg.TimerMax
	default:
		return minutes
	}
}

func validateCreateRequest(req *CreateRideRequest) (start, end domainBike.Location, err error) {
	req.BikeID = strings.TrimSpace(req.BikeID)
	if err := utils.ValidateStruct(req); err != nil {
		return "", "", appErrors.Validation(err)
	}

	if start, err = domainBike.ParseLocation(req.StartLocation); err != nil {
		return "", "", appErrors.Validation(err)
	}
	if end, err = domainBike.ParseLocation(req.EndLocation); err != nil {
		return "", "", appErrors.Validation(err)
	}
	return start, end, nil
}

func validateCompleteRequest(req *CompleteRideRequest) (domainBike.Location, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", appErrors.Validation(err)
	}

	end, err := domainBike.ParseLocation(req.EndLocation)
	if err != nil {
		return "", appErrors.Validation(err)
	}

	if req.Rating != nil && (*req.Rating < minRating || *req.Rating > maxRating) {
		return "", appErrors.Validation(domainRide.ErrInvalidRating)
	}

	if req.Feedback != nil {
		feedback := utils.SanitizeText(*req.Feedback)
		if feedback == "" {
			req.Feedback = nil
		} else {
			req.Feedback = &feedback
		}
	}

	return end, nil
}
