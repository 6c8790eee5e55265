package handler

import (
	"net/http"

	"hopon-backend/internal/middleware"
	"hopon-backend/internal/usecase/bike"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BikeHandler struct {
	service *bike.Service
}

func NewBikeHandler(service *bike.Service) *BikeHandler {
	return &BikeHandler{service: service}
}

// RegisterRoutes mounts /bikes. Reads take optionalAuth, writes requireAuth.
func (h *BikeHandler) RegisterRoutes(router *gin.RouterGroup, optionalAuth, requireAuth gin.HandlerFunc) {
	bikes := router.Group("/bikes")
	{
		bikes.GET("", optionalAuth, h.ListBikes)
		bikes.GET("/location/:location", optionalAuth, h.ListAvailableAtLocation)
		bikes.GET("/stats", optionalAuth, h.GetStats)
		bikes.GET("/:bikeId", optionalAuth, h.GetBike)
		bikes.POST("/:bikeId/book", requireAuth, h.BookBike)
		bikes.POST("/:bikeId/return", requireAuth, h.ReturnBike)
	}
}

func (h *BikeHandler) ListBikes(c *gin.Context) {
	bikes, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"bikes": bikes})
}

func (h *BikeHandler) ListAvailableAtLocation(c *gin.Context) {
	bikes, err := h.service.ListAvailable(c.Request.Context(), c.Param("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"bikes": bikes})
}

func (h *BikeHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *BikeHandler) GetBike(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("bikeId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"bike": b})
}

func (h *BikeHandler) BookBike(c *gin.Context) {
	var req bike.BookBikeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		req.UserID, _ = middleware.GetUserID(c)
	}

	b, err := h.service.Book(c.Request.Context(), c.Param("bikeId"), utils.SanitizeString(req.UserID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Bike booked successfully",
		"bike":    b,
	})
}

func (h *BikeHandler) ReturnBike(c *gin.Context) {
	var req bike.ReturnBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.service.Return(c.Request.Context(), c.Param("bikeId"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Bike returned successfully",
		"bike":    b,
	})
}
