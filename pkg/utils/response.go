package utils

import "github.com/gin-gonic/gin"

// SuccessResponse writes {"success": true, ...payload}.
func SuccessResponse(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// ErrorResponse writes {"success": false, "message": message}.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// ErrorResponseWithDetail adds an "error" field, used outside production only.
func ErrorResponseWithDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   detail,
	})
}
