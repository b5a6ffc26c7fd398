// Package httpkit provides HTTP response helpers and middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"devscout_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload shape.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes a payload with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an error payload with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// DomainError maps an apperr.Error to its HTTP status; other errors become 500.
func DomainError(c *gin.Context, err error) {
	if e, ok := err.(*apperr.Error); ok {
		Error(c, e.HTTPStatus(), e.Message, e.Details)
		return
	}
	Error(c, http.StatusInternalServerError, err.Error(), nil)
}
