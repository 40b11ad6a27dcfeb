package api

import (
	"net/http"

	"github.com/paylab/dwolla-dashboard/internal/app"
)

// AccountHandler holds the dependencies for master-account handlers.
type AccountHandler struct {
	service *app.Service
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *app.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// Me handles GET /api/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.MasterAccount(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": account})
}

// FundingSources handles GET /api/me/funding-sources.
func (h *AccountHandler) FundingSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.MasterFundingSources(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fundingSources": sources})
}

// Balance handles GET /api/me/balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.Balance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
