package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortly/internal/entities"
)

// statusFor maps a domain error to the HTTP status it is reported with
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrMissingURL), errors.Is(err, entities.ErrInvalidSlug):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrExhaustedAttempts):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts the request with a JSON error body. Internal failures
// are attached to the context for the request logger and not echoed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "Internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}
