package user

import appErrors "hopon-backend/pkg/errors"

var (
	ErrUserNotFound      = appErrors.ErrUserNotFound
	ErrUserAlreadyExists = appErrors.ErrUserAlreadyExists
)
