package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creator-marketplace/internal/services"
	"creator-marketplace/internal/storage"
)

// respondError translates a service error into a status code and an
// {"error": message} body. Upstream failures are logged and hidden.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrBillingDisabled), errors.Is(err, storage.ErrDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrInvalidKind), errors.Is(err, storage.ErrInvalidMimeType):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	if status == http.StatusServiceUnavailable {
		c.JSON(status, gin.H{"error": unwrapMessage(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// unwrapMessage drops the error class prefix from a wrapped sentinel
func unwrapMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramID parses a UUID path parameter, writing 400 on failure
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
