package api

import (
	"errors"
	"net/http"

	"github.com/studyforge/studyforge/internal/api/shared"
	"github.com/studyforge/studyforge/internal/extract"
	"github.com/studyforge/studyforge/internal/generation"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad input errors
	case errors.Is(err, extract.ErrInvalidURL),
		errors.Is(err, extract.ErrInvalidPDF),
		errors.Is(err, generation.ErrEmptyContent):
		return http.StatusBadRequest

	// The source exists but is not usable
	case errors.Is(err, extract.ErrUnreadablePage),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream failures
	case errors.Is(err, extract.ErrFetchFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, extract.ErrInvalidURL):
		return "Invalid URL format"
	case errors.Is(err, extract.ErrInvalidPDF):
		return "Failed to process PDF"
	case errors.Is(err, extract.ErrUnreadablePage):
		return "Could not extract content from this page. It may not be an article."
	case errors.Is(err, extract.ErrFetchFailed):
		return "Failed to fetch URL"
	case errors.Is(err, generation.ErrEmptyContent):
		return "Content is required"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The content could not be processed"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return "Failed to process content. Please try again."
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the standard error response for err: the mapped
// status code and safe message to the client, the full error to the logs.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
