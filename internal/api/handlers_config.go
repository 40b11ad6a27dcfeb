/**
 * @description
 * Handlers for credential configuration. The API key/secret arrive over the
 * wire only; they are never read from process configuration, so restarting
 * the backend always returns it to the unconfigured state.
 */
package api

import (
	"net/http"

	"github.com/paylab/dwolla-dashboard/internal/app"
)

// ConfigHandler holds the dependencies for configuration handlers.
type ConfigHandler struct {
	service *app.Service
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(service *app.Service) *ConfigHandler {
	return &ConfigHandler{service: service}
}

// configureRequest defines the expected JSON body for POST /api/config.
type configureRequest struct {
	Key    string `json:"key" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// Configure stores new Dwolla credentials and validates them by requesting
// a token.
func (h *ConfigHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if err := decodeAndValidate(r, &req, func(string) string {
		return "API key and secret are required"
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	expiresIn, err := h.service.ConfigureCredentials(r.Context(), req.Key, req.Secret)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"tokenExpiresIn": expiresIn,
	})
}

// Status reports whether credentials are configured and the token state.
func (h *ConfigHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ConfigStatus())
}
