package middleware

import (
	"errors"
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the outermost error boundary: every error attached to the
// context resolves to a well-formed JSON response. Wrapped causes (relay
// responses, stack detail) are logged here and never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Kind != apperror.KindValidation {
				// Validation failures are user mistakes, not incidents
				logger.Log.Error("request failed",
					"kind", appErr.Kind.String(),
					"status", appErr.Code,
					"error", errOrMessage(appErr),
				)
			}
			if appErr.Field != "" {
				response.FieldError(c, appErr.Code, appErr.Field, appErr.Message)
				return
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error", "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

func errOrMessage(appErr *apperror.AppError) string {
	if appErr.Err != nil {
		return appErr.Err.Error()
	}
	return appErr.Message
}
