package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookie/internal/dataerror"
	"github.com/mrlokans/bookie/internal/presentation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondDataError maps repository errors onto HTTP statuses. The body
// carries the user-facing message and the error kind as code.
func respondDataError(c *gin.Context, err error, context string) {
	var remote *dataerror.Remote
	if errors.As(err, &remote) {
		log.Printf("Remote error (%s): %v", context, err)
		c.JSON(remoteStatus(remote.Kind), ErrorResponse{
			Error: presentation.ErrorMessage(err),
			Code:  "remote_" + string(remote.Kind),
		})
		return
	}

	var local *dataerror.Local
	if errors.As(err, &local) {
		log.Printf("Local error (%s): %v", context, err)
		status := http.StatusInternalServerError
		if local.Kind == dataerror.LocalDiskFull {
			status = http.StatusInsufficientStorage
		}
		c.JSON(status, ErrorResponse{
			Error: presentation.ErrorMessage(err),
			Code:  "local_" + string(local.Kind),
		})
		return
	}

	respondInternalError(c, err, context)
}

func remoteStatus(kind dataerror.RemoteKind) int {
	switch kind {
	case dataerror.RemoteNoInternet:
		return http.StatusServiceUnavailable
	case dataerror.RemoteRequestTimeout:
		return http.StatusGatewayTimeout
	case dataerror.RemoteTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// --- Parameter Parsing ---

var bookIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,64}$`)

// parseBookID extracts and validates an OpenLibrary work id from URL parameters.
// Returns the id or responds with a 400 error and returns "", false.
func parseBookID(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)
	if !bookIDPattern.MatchString(id) {
		respondBadRequest(c, "invalid "+paramName)
		return "", false
	}
	return id, true
}

// firstValue waits for the first value of a subscription.
func firstValue[T any](ctx context.Context, ch <-chan T) (T, bool) {
	select {
	case v, ok := <-ch:
		return v, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}
