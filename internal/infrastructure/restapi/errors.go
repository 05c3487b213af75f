package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"partners_lounge/internal/domain/entity"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrIndexerFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := ErrorResponse{
		Details:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	}
	switch status {
	case http.StatusBadRequest:
		body.Error = "invalid request"
	case http.StatusBadGateway:
		body.Error = "could not fetch on-chain data"
		body.Retryable = true
	default:
		body.Error = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func respondBadRequest(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     "invalid request",
		Details:   details,
		RequestID: c.GetString(requestIDKey),
	})
}
