/**
 * @description
 * Shared response and validation helpers for the API handlers. Every error
 * leaves the backend as `{"error": "<message>"}` with a status derived from
 * the domain error taxonomy; the GUI shows the message verbatim.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

var validate = validator.New()

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON is a helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"Failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes the uniform error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps a domain error to its HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

// statusForError resolves the HTTP status for a domain error. Validation
// and duplicate rejections are client faults; provider errors split on
// whether Dwolla blamed the request or its own side.
func statusForError(err error) int {
	var (
		validationErr *domain.ValidationError
		duplicateErr  *domain.DuplicateError
		notFoundErr   *domain.NotFoundError
		authErr       *domain.AuthenticationError
		mappingErr    *domain.MappingError
		providerErr   *domain.ProviderError
	)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.As(err, &validationErr), errors.As(err, &duplicateErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &mappingErr):
		return http.StatusBadGateway
	case errors.As(err, &providerErr):
		if providerErr.ClientFault() {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBestEffort decodes an optional request body, tolerating an empty
// or absent one.
func decodeBestEffort(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(dst)
}

// decodeAndValidate decodes the request body into dst and runs its
// validate tags. A failure is reported with msgFor's translation of the
// first failed field.
func decodeAndValidate(r *http.Request, dst any, msgFor func(field string) string) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.NewValidationError("%s", msgFor(fieldErrs[0].Field()))
		}
		return domain.NewValidationError("Invalid request data")
	}
	return nil
}
