package ride

import appErrors "hopon-backend/pkg/errors"

var (
	ErrRideNotFound     = appErrors.ErrRideNotFound
	ErrRideNotActive    = appErrors.ErrRideNotActive
	ErrActiveRideExists = appErrors.ErrActiveRideExists
	ErrInvalidRating    = appErrors.ErrInvalidRating
)
