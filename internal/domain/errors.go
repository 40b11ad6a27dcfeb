/**
 * @description
 * This file defines the error taxonomy shared by the service and API layers.
 * Errors detected locally (validation, duplicates, unknown IDs) never reach
 * the provider; provider failures are decoded into a structured ProviderError
 * at the client boundary so handlers can translate them uniformly.
 *
 * @notes
 * - Handlers map these types to HTTP statuses with errors.As / errors.Is.
 * - Every error response sent to the GUI is `{"error": "<message>"}`.
 */
package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when an operation requires Dwolla credentials
// and none have been supplied via POST /api/config.
var ErrNotConfigured = errors.New("Dwolla API credentials are not configured")

// AuthenticationError indicates the provider rejected the configured
// credentials. Callers must not retry: bad credentials do not become valid.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "Dwolla rejected the configured credentials"
	}
	return e.Message
}

// ValidationError reports a missing or invalid request field, detected
// before any provider call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports an email or phone collision against the local
// customer registry. The check is advisory; the provider stays authoritative.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

// NotFoundError reports an unknown local resource ID.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// MappingError reports a provider response the mappers could not reshape,
// typically a malformed or missing hypermedia self link.
type MappingError struct {
	Message string
}

func (e *MappingError) Error() string { return e.Message }

// ProviderSubError is one entry of the provider's embedded error list.
type ProviderSubError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// ProviderError wraps a non-2xx provider response in a uniform shape.
type ProviderError struct {
	HTTPStatus int
	Code       string
	Message    string
	Errors     []ProviderSubError
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider request failed with status %d", e.HTTPStatus)
}

// ClientFault reports whether the provider blamed the request rather than
// its own infrastructure. Handlers return 400 for client faults and 502
// for provider-side failures.
func (e *ProviderError) ClientFault() bool {
	return e.HTTPStatus >= 400 && e.HTTPStatus < 500
}
