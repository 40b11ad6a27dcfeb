/**
 * @description
 * This file contains the HTTP handler for processing incoming webhooks from
 * Dwolla, plus the local event-buffer views.
 *
 * Key features:
 * - Security: optionally validates the HMAC-SHA256 signature of incoming
 *   webhooks when a secret is configured.
 * - At-least-once contract: once a payload is accepted, the response is
 *   200 regardless of what happens during processing; anything else makes
 *   the provider retry indefinitely.
 *
 * @dependencies
 * - crypto/hmac, crypto/sha256, encoding/hex: For signature validation.
 * - The service's internal packages for domain models and the flows.
 */
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/paylab/dwolla-dashboard/internal/app"
	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Request-Signature-SHA-256"

// WebhookHandler processes incoming webhooks from Dwolla.
type WebhookHandler struct {
	service *app.Service
	secret  string
}

// NewWebhookHandler creates a new handler for the webhook endpoints.
func NewWebhookHandler(service *app.Service, secret string) *WebhookHandler {
	return &WebhookHandler{service: service, secret: secret}
}

// Receive handles POST /api/webhooks. Signature failures are rejected
// before any state is touched; everything after acceptance is acknowledged
// with 200 even if processing fails internally.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("level=warn component=webhooks msg=\"failed to read webhook body\" err=%v", err)
		writeJSON(w, http.StatusOK, map[string]any{"received": true})
		return
	}

	if !h.isValidSignature(r.Header.Get(signatureHeader), body) {
		writeError(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var payload domain.DwollaWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("level=warn component=webhooks msg=\"undecodable webhook payload acknowledged\" err=%v", err)
		writeJSON(w, http.StatusOK, map[string]any{"received": true})
		return
	}

	ev := h.service.ProcessWebhook(payload)
	log.Printf("level=info component=webhooks msg=\"webhook received\" id=%s topic=%s resource=%s", ev.ID, ev.Topic, ev.ResourceID)

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

// isValidSignature checks the hex HMAC-SHA256 of the body in constant
// time. Without a configured secret, validation is skipped with a warning.
func (h *WebhookHandler) isValidSignature(header string, body []byte) bool {
	if h.secret == "" {
		log.Println("level=warn component=webhooks msg=\"webhook secret not set; skipping signature validation\"")
		return true
	}
	provided, err := hex.DecodeString(header)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

// List handles GET /api/webhooks, newest first.
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"webhooks": h.service.ListWebhooks()})
}

// Clear handles DELETE /api/webhooks.
func (h *WebhookHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearWebhooks()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
