package handler

import (
	"errors"
	"io"
	"net/http"

	"hopon-backend/internal/logger"
	"hopon-backend/internal/middleware"
	appErrors "hopon-backend/pkg/errors"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrUserAlreadyExists),
		errors.Is(err, appErrors.ErrBikeUnavailable),
		errors.Is(err, appErrors.ErrActiveRideExists):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrTokenExpired),
		errors.Is(err, appErrors.ErrTokenRequired),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrBikeNotFound),
		errors.Is(err, appErrors.ErrRideNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrRideNotActive):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case appErrors.CodeValidation, appErrors.CodeInvalidState:
				utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
				return
			case appErrors.CodeConflict:
				utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
				return
			case appErrors.CodeNotFound:
				utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
				return
			}
		}

		logger.WithRequestID(middleware.GetRequestID(c)).Error("Internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindOptionalJSON accepts an empty body and leaves dst untouched.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
