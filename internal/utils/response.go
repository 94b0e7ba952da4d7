// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error body shared by every handler: {"error": ..., "detailedError": ...}.
type ErrorBody struct {
	Error         string `json:"error"`
	DetailedError string `json:"detailedError,omitempty"`
}

func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	body := ErrorBody{Error: message}
	if err != nil {
		body.DetailedError = err.Error()
	}
	c.JSON(statusCode, body)
}

func BadRequestResponse(c *gin.Context, message string, err error) {
	ErrorResponse(c, http.StatusBadRequest, message, err)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message, nil)
}

func InternalErrorResponse(c *gin.Context, message string, err error) {
	ErrorResponse(c, http.StatusInternalServerError, message, err)
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}
