package bike

import appErrors "hopon-backend/pkg/errors"

var (
	ErrBikeNotFound     = appErrors.ErrBikeNotFound
	ErrBikeUnavailable  = appErrors.ErrBikeUnavailable
	ErrInvalidLocation  = appErrors.ErrInvalidLocation
	ErrInvalidCondition = appErrors.ErrInvalidCondition
)
