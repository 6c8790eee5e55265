package handler

import (
	"net/http"

	"hopon-backend/internal/middleware"
	"hopon-backend/internal/usecase/ride"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	service *ride.Service
}

func NewRideHandler(service *ride.Service) *RideHandler {
	return &RideHandler{service: service}
}

func (h *RideHandler) RegisterRoutes(router *gin.RouterGroup, optionalAuth, requireAuth gin.HandlerFunc) {
	rides := router.Group("/rides")
	{
		rides.POST("", requireAuth, h.CreateRide)
		rides.GET("", optionalAuth, h.ListRides)
		rides.GET("/stats", optionalAuth, h.GetStats)
		rides.GET("/user/:userId", requireAuth, h.ListUserRides)
		rides.GET("/user/:userId/active", requireAuth, h.GetActiveRide)
		rides.PUT("/:rideId/complete", requireAuth, h.CompleteRide)
		rides.PUT("/:rideId/cancel", requireAuth, h.CancelRide)
	}
}

func (h *RideHandler) CreateRide(c *gin.Context) {
	var req ride.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		req.UserID, _ = middleware.GetUserID(c)
	}
	req.UserID = utils.SanitizeString(req.UserID)
	req.BikeID = utils.SanitizeString(req.BikeID)

	created, err := h.service.CreateRide(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Ride started successfully",
		"ride":    created,
	})
}

func (h *RideHandler) ListRides(c *gin.Context) {
	rides, err := h.service.ListRides(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"rides": rides})
}

func (h *RideHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *RideHandler) ListUserRides(c *gin.Context) {
	rides, err := h.service.ListUserRides(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"rides": rides})
}

// GetActiveRide answers {"ride": null} when the user is not riding.
func (h *RideHandler) GetActiveRide(c *gin.Context) {
	active, err := h.service.GetActiveRide(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"ride": active})
}

func (h *RideHandler) CompleteRide(c *gin.Context) {
	var req ride.CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	completed, err := h.service.CompleteRide(c.Request.Context(), c.Param("rideId"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Ride completed successfully",
		"ride":    completed,
	})
}

func (h *RideHandler) CancelRide(c *gin.Context) {
	cancelled, err := h.service.CancelRide(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Ride cancelled successfully",
		"ride":    cancelled,
	})
}
