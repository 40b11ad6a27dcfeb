/**
 * @description
 * This file defines the HTTP handlers for customer endpoints: creation,
 * listing, KYC verification, funding-source management, IAV tokens and the
 * payout-eligibility view. Handlers parse and validate the request, call
 * the service and write the response envelope.
 */
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paylab/dwolla-dashboard/internal/app"
)

// CustomerHandler holds the dependencies for customer-related handlers.
type CustomerHandler struct {
	service *app.Service
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *app.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// createCustomerRequest defines the expected JSON body for creating a
// customer.
type createCustomerRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Type         string `json:"type"`
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeAndValidate(r, &req, func(field string) string {
		if field == "Email" && req.Email != "" {
			return "A valid email address is required"
		}
		return "First name, last name, and email are required"
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), app.CreateCustomerInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Type:         req.Type,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"customer": customer})
}

// List handles GET /api/customers. The registry is a cache, never
// authoritative, so both the plain list and ?refresh=true fetch from the
// provider.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
}

// Get handles GET /api/customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
}

// verifyCustomerRequest defines the optional KYC fields; omitted values
// fall back to sandbox defaults.
type verifyCustomerRequest struct {
	SSN         string `json:"ssn"`
	DateOfBirth string `json:"dateOfBirth"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
}

// Verify handles POST /api/customers/{id}/verify.
func (h *CustomerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCustomerRequest
	// All fields are optional; an empty body is a valid request.
	decodeBestEffort(r, &req)

	result, err := h.service.VerifyCustomer(r.Context(), chi.URLParam(r, "id"), app.VerifyCustomerInput{
		SSN:         req.SSN,
		DateOfBirth: req.DateOfBirth,
		Address1:    req.Address1,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fundingSourceRequest defines the expected JSON body for attaching a
// funding source.
type fundingSourceRequest struct {
	Name          string `json:"name" validate:"required"`
	RoutingNumber string `json:"routingNumber"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
}

// AddFundingSource handles POST /api/customers/{id}/funding-sources.
func (h *CustomerHandler) AddFundingSource(w http.ResponseWriter, r *http.Request) {
	var req fundingSourceRequest
	if err := decodeAndValidate(r, &req, func(string) string {
		return "Funding source name is required"
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	fs, err := h.service.AddFundingSource(r.Context(), chi.URLParam(r, "id"), app.FundingSourceInput{
		Name:          req.Name,
		RoutingNumber: req.RoutingNumber,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"fundingSource": fs})
}

// ListFundingSources handles GET /api/customers/{id}/funding-sources.
func (h *CustomerHandler) ListFundingSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.ListFundingSources(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fundingSources": sources})
}

// IAVToken handles POST /api/customers/{id}/iav-token.
func (h *CustomerHandler) IAVToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.IAVToken(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

// Eligible handles GET /api/customers/eligible.
func (h *CustomerHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	includeUnverified := r.URL.Query().Get("includeUnverified") == "true"
	customers, err := h.service.EligibleCustomers(r.Context(), includeUnverified)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
}
