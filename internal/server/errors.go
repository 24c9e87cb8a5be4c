package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	intentdomain "github.com/nvillagra/prodtrack/internal/intent/domain"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, intentdomain.ErrMissingCredential),
		errors.Is(err, intentdomain.ErrInvalidCredential):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: err.Error(),
		}
	case errors.Is(err, intentdomain.ErrUnavailable),
		errors.Is(err, intentdomain.ErrMalformedResponse):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, recorddomain.ErrInvalidType),
		errors.Is(err, recorddomain.ErrInvalidQuantity),
		errors.Is(err, recorddomain.ErrInvalidDate),
		errors.Is(err, recorddomain.ErrInvalidBackup),
		errors.Is(err, settingsdomain.ErrInvalidTheme),
		errors.Is(err, settingsdomain.ErrInvalidPrice),
		errors.Is(err, settingsdomain.ErrInvalidGoal):
		return true
	default:
		return false
	}
}
