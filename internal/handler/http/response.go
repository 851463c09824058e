// File: internal/handler/http/response.go
package http

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the uniform envelope for non-payload answers.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse is returned for malformed request bodies.
type ValidationErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(400, ValidationErrorResponse{
		Message: "Invalid request.",
		Error:   err.Error(),
	})
}

func respondInternalError(c *gin.Context) {
	respondMessage(c, 500, "An unexpected error occurred.")
}
