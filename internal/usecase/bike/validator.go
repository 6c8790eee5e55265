package bike

import (
	"strings"

	domainBike "hopon-backend/internal/domain/bike"
	appErrors "hopon-backend/pkg/errors"
	"hopon-backend/pkg/utils"
)

// ValidateReturnRequest resolves the target location and optional condition.
func ValidateReturnRequest(req *ReturnBikeRequest) (domainBike.Location, *domainBike.Condition, error) {
	req.NewLocation = strings.TrimSpace(req.NewLocation)
	if err := utils.ValidateStruct(req); err != nil {
		return "", nil, appErrors.Validation(err)
	}

	location, err := domainBike.ParseLocation(req.NewLocation)
	if err != nil {
		return "", nil, appErrors.Validation(err)
	}

	if req.Condition == nil || *req.Condition == "" {
		return location, nil, nil
	}
	condition, err := domainBike.ParseCondition(*req.Condition)
	if err != nil {
		return "", nil, appErrors.Validation(err)
	}

	return location, &condition, nil
}

func ValidateLocation(raw string) (domainBike.Location, error) {
	location, err := domainBike.ParseLocation(strings.TrimSpace(raw))
	if err != nil {
		return "", appErrors.Validation(err)
	}
	return location, nil
}
