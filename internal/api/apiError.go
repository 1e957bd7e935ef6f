package api

import (
	"errors"
	"net/http"

	"github.com/saketjha34/FileForge/internal/service"
	"github.com/saketjha34/FileForge/internal/store"
)

// APIError represents a structured error response to be sent to the client.
// It implements the standard `error` interface.
type APIError struct {
	// Status is the HTTP status code that corresponds to this error.
	Status int `json:"status"`
	// Message is the user-friendly error message
	Message string `json:"message"`
}

// Error implements the error interface, allowing APIError to be used as a standard error
func (e *APIError) Error() string {
	return e.Message
}

// --- Error Constructors ---

// NewBadRequestError creates an error representing a 400 Bad Request
// Useful for validation failures or malformed requests
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// NewUnauthorizedError creates an error representing a 401 Unauthorized
// Useful when authentication is required and has failed or has not yet been provided
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

// NewNotFoundError creates an error representing a 404 Not Found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// NewConflictError creates an error representing a 409 Conflict
// Useful for cases like trying to create a resource that already exists
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Message: message,
	}
}

// NewBadGatewayError creates an error representing a 502 Bad Gateway.
// Used when the blob backend fails on the single operation the request needs.
func NewBadGatewayError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadGateway,
		Message: message,
	}
}

// NewInternalServerError creates an error representing a 500 Internal Server Error
// This should be used for unexpected server-side issues
func NewInternalServerError() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred. Please try again later.",
	}
}

// --- Error Translation ---

// FromServiceError translates errors from the service/store layer into specific
// APIError types. This allows the HTTP handlers to be decoupled from the underlying
// store implementation details. Missing and foreign resources share the same
// 404 message on purpose.
func FromServiceError(err error) *APIError {
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("The requested resource could not be found")
	}
	if errors.Is(err, store.ErrConflict) {
		return NewConflictError("A conflict occurred with the current state of the resource")
	}
	if errors.Is(err, service.ErrInvalidArgument) {
		return NewBadRequestError(err.Error())
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		return NewUnauthorizedError("Invalid username or password")
	}
	if errors.Is(err, service.ErrStorageFailure) {
		return NewBadGatewayError("The storage backend is unavailable. Please try again later.")
	}

	// For any other untranslatable error, we return a generic internal server error
	// to avoid leaking implementation details to the client
	return NewInternalServerError()
}
