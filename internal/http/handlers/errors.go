package handlers

import (
	"net/http"

	"marketplace/internal/domain"
	"marketplace/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Unknown errors are
// attached to the context for the request logger and answered with a generic 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsQuery(err):
		respondError(c, http.StatusInternalServerError, "invalid_query", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsIllegalState(err):
		respondError(c, http.StatusBadRequest, "illegal_change", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusBadRequest, "duplicate", err.Error())
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
