package handler

import (
	"net/http"

	"hopon-backend/internal/middleware"
	"hopon-backend/internal/usecase/user"
	"hopon-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/check-email/:email", h.CheckEmail)
		authGroup.GET("/me", requireAuth, h.Me)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = utils.SanitizeString(req.Name)
	req.Phone = utils.SanitizePhone(req.Phone)
	req.Gender = utils.SanitizeString(req.Gender)

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    created,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"message":   "Login successful",
		"user":      auth.User,
		"token":     auth.Token,
		"expiresAt": auth.ExpiresAt,
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required")
		return
	}

	current, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"user": current})
}

func (h *UserHandler) CheckEmail(c *gin.Context) {
	available, err := h.service.CheckEmailAvailability(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"available": available})
}
