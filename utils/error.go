package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError writes err using the status implied by its AppError kind.
// Internal errors are logged with their cause and reported generically.
func RespondError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		GetLogger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	} else {
		GetLogger().Debug("request refused",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.String("reason", appErr.Message))
	}
	c.JSON(status, ErrorResponse{Message: appErr.Message, Code: appErr.Code})
}
