package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
// Success is always false so clients can branch on it like a ProcessingResult.
type APIError struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"error"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewAPIError creates a new APIError with the given parameters
func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with additional details
func NewAPIErrorWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	e := NewAPIError(statusCode, errorCode, message)
	e.Details = details
	return e
}

// InvalidRequest reports a body that could not be decoded.
func InvalidRequest(err error) *APIError {
	return NewAPIErrorWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ValidationFailed reports the fields rejected by the validator.
func ValidationFailed(fields []ValidationError) *APIError {
	return NewAPIErrorWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", fields)
}

// InvalidCSV reports input whose header could not be understood.
func InvalidCSV(err error) *APIError {
	return NewAPIError(http.StatusBadRequest, "INVALID_CSV", err.Error())
}

// Unprocessable reports a well formed request that produced no charts.
func Unprocessable(message string, details any) *APIError {
	return NewAPIErrorWithDetails(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", message, details)
}

// Predefined errors for router fallbacks.
var (
	ErrNotFound         = NewAPIError(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrMethodNotAllowed = NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
)

// renderError writes err as JSON with its status code.
func renderError(w http.ResponseWriter, r *http.Request, err *APIError) {
	_ = render.Render(w, r, err)
}
