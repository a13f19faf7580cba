package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes returned in the error_code extension.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeEmptySelection    = "EMPTY_SELECTION"
	CodeNotFound          = "NOT_FOUND"
	CodeNoDataset         = "NO_DATASET"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeMissingColumns    = "MISSING_COLUMNS"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeUpstreamFailed    = "UPSTREAM_FAILED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// Predefined error types for common scenarios
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed   = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrNoDataset          = New(http.StatusConflict, CodeNoDataset, "No dataset is loaded; upload a file or load a sample first")
	ErrInsufficientData   = New(http.StatusUnprocessableEntity, CodeInsufficientData, "The file needs a header row and at least one data row")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message}},
	})
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// ColumnDetails lists which columns a chart needed and which were absent.
type ColumnDetails struct {
	DatasetType string   `json:"dataset_type"`
	Required    []string `json:"required"`
	Missing     []string `json:"missing"`
}

// MissingColumnsError reports a dataset that lacks columns the chart mode needs.
func MissingColumnsError(datasetType string, required, missing []string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeMissingColumns,
		fmt.Sprintf("The %s data is missing required columns", datasetType),
		ColumnDetails{DatasetType: datasetType, Required: required, Missing: missing})
}

// SelectionDetails names what the user has to select.
type SelectionDetails struct {
	Mode string `json:"mode"`
	Kind string `json:"kind"`
}

// EmptySelectionError reports a draw request with nothing selected for kind.
func EmptySelectionError(mode, kind string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeEmptySelection,
		fmt.Sprintf("No %s selected for the %s chart", kind, mode),
		SelectionDetails{Mode: mode, Kind: kind})
}

// PayloadTooLargeError reports input over the configured limit.
func PayloadTooLargeError(maxBytes int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		"Request body exceeds maximum allowed size",
		map[string]interface{}{"max_size": maxBytes})
}

// UnsupportedFormatError reports a file or export format that is not handled.
func UnsupportedFormatError(format string, allowed []string) *APIError {
	return NewWithDetails(http.StatusUnsupportedMediaType, CodeUnsupportedFormat,
		fmt.Sprintf("Unsupported format %q", format),
		map[string]interface{}{"format": format, "allowed": allowed})
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}
