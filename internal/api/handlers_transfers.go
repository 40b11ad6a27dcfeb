/**
 * @description
 * Handlers for payout transfers: creation with eligibility checks, the
 * enriched list view and single-transfer lookup.
 */
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paylab/dwolla-dashboard/internal/app"
)

// TransferHandler holds the dependencies for transfer-related handlers.
type TransferHandler struct {
	service *app.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service *app.Service) *TransferHandler {
	return &TransferHandler{service: service}
}

// createTransferRequest defines the expected JSON body for creating a
// transfer.
type createTransferRequest struct {
	SourceFundingSourceURL      string  `json:"sourceFundingSourceUrl" validate:"required"`
	DestinationFundingSourceURL string  `json:"destinationFundingSourceUrl" validate:"required"`
	Amount                      float64 `json:"amount" validate:"gt=0"`
	Currency                    string  `json:"currency"`
	AllowUnverified             bool    `json:"allowUnverified"`
}

// Create handles POST /api/transfers.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := decodeAndValidate(r, &req, func(field string) string {
		if field == "Amount" {
			return "Amount must be greater than 0"
		}
		return "Source and destination funding sources are required"
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	transfer, err := h.service.CreateTransfer(r.Context(), app.TransferInput{
		SourceFundingSourceURL:      req.SourceFundingSourceURL,
		DestinationFundingSourceURL: req.DestinationFundingSourceURL,
		Amount:                      req.Amount,
		Currency:                    req.Currency,
		AllowUnverified:             req.AllowUnverified,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transfer": transfer})
}

// List handles GET /api/transfers.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.service.ListTransfers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

// Get handles GET /api/transfers/{id}.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	transfer, err := h.service.GetTransfer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfer": transfer})
}
