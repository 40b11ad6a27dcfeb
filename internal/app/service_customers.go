/**
 * @description
 * Customer flows: creation with advisory duplicate checks, registry-backed
 * lookups, sandbox KYC verification, funding-source management, IAV token
 * issuance and payout-eligibility filtering.
 */
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// CreateCustomerInput carries the fields accepted by POST /api/customers.
type CreateCustomerInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Type         string
	BusinessName string
	BusinessType string
}

// CreateCustomer validates the input, runs the advisory duplicate checks
// against the local registry and creates the customer on Dwolla, following
// the Location header to return the authoritative record.
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (domain.Customer, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || strings.TrimSpace(in.Email) == "" {
		return domain.Customer{}, domain.NewValidationError("First name, last name, and email are required")
	}
	if in.Type == domain.CustomerTypeBusiness && (strings.TrimSpace(in.BusinessName) == "" || strings.TrimSpace(in.BusinessType) == "") {
		return domain.Customer{}, domain.NewValidationError("Business name and business type are required for business customers")
	}

	if _, exists := s.customers.FindByEmail(in.Email); exists {
		return domain.Customer{}, &domain.DuplicateError{Message: "A customer with this email already exists"}
	}
	if _, exists := s.customers.FindByPhone(in.Phone); exists {
		return domain.Customer{}, &domain.DuplicateError{Message: "A customer with this phone number already exists"}
	}

	payload := domain.CreateCustomerPayload{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Type:         in.Type,
		BusinessName: in.BusinessName,
		BusinessType: in.BusinessType,
	}

	var res domain.DwollaCustomer
	if err := s.provider.PostFollow(ctx, "/customers", payload, &res); err != nil {
		return domain.Customer{}, err
	}

	customer, err := customerFromResource(res)
	if err != nil {
		return domain.Customer{}, err
	}
	s.customers.Upsert(customer)
	return customer, nil
}

// ListCustomers fetches the first page of customers from the provider and
// replaces the local registry with the snapshot.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var list domain.DwollaCustomerList
	if err := s.provider.Get(ctx, "/customers?limit="+listPageLimit, &list); err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(list.Embedded.Customers))
	for _, res := range list.Embedded.Customers {
		c, err := customerFromResource(res)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	s.customers.ReplaceAll(customers)
	return customers, nil
}

// GetCustomer looks up a customer in the local registry.
func (s *Service) GetCustomer(id string) (domain.Customer, error) {
	c, ok := s.customers.FindByID(id)
	if !ok {
		return domain.Customer{}, &domain.NotFoundError{Resource: "customer", ID: id}
	}
	return c, nil
}

// VerifyCustomerInput carries the optional KYC fields; omitted values fall
// back to the sandbox defaults.
type VerifyCustomerInput struct {
	SSN         string
	DateOfBirth string
	Address1    string
	City        string
	State       string
	PostalCode  string
}

// VerifyResult is returned by the KYC flow.
type VerifyResult struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Customer domain.Customer `json:"customer"`
}

// VerifyCustomer upgrades a customer to verified-personal by merging the
// stored identity with the supplied KYC details, then re-fetches the
// customer so the registry reflects the authoritative new status.
func (s *Service) VerifyCustomer(ctx context.Context, id string, in VerifyCustomerInput) (VerifyResult, error) {
	local, ok := s.customers.FindByID(id)
	if !ok {
		return VerifyResult{}, &domain.NotFoundError{Resource: "customer", ID: id}
	}

	payload := domain.UpgradeCustomerPayload{
		FirstName:   local.FirstName,
		LastName:    local.LastName,
		Email:       local.Email,
		Type:        domain.CustomerTypePersonal,
		Address1:    valueOr(in.Address1, defaultAddress1),
		City:        valueOr(in.City, defaultCity),
		State:       valueOr(in.State, defaultState),
		PostalCode:  valueOr(in.PostalCode, defaultPostalCode),
		DateOfBirth: valueOr(in.DateOfBirth, defaultDateOfBirth),
		SSN:         valueOr(in.SSN, defaultSSN),
	}

	if _, err := s.provider.Post(ctx, local.URL, payload, nil); err != nil {
		return VerifyResult{}, err
	}

	var res domain.DwollaCustomer
	if err := s.provider.Get(ctx, local.URL, &res); err != nil {
		return VerifyResult{}, err
	}
	refreshed, err := customerFromResource(res)
	if err != nil {
		return VerifyResult{}, err
	}
	s.customers.Upsert(refreshed)

	return VerifyResult{
		Success:  true,
		Message:  fmt.Sprintf("Customer status is now %s", refreshed.Status),
		Customer: refreshed,
	}, nil
}

// FundingSourceInput carries the fields accepted when attaching a bank
// account to a customer.
type FundingSourceInput struct {
	Name          string
	RoutingNumber string
	AccountNumber string
	AccountType   string
}

// AddFundingSource attaches a funding source to a customer, defaulting the
// routing/account numbers to Dwolla's sandbox test values when omitted.
func (s *Service) AddFundingSource(ctx context.Context, customerID string, in FundingSourceInput) (domain.FundingSource, error) {
	local, ok := s.customers.FindByID(customerID)
	if !ok {
		return domain.FundingSource{}, &domain.NotFoundError{Resource: "customer", ID: customerID}
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.FundingSource{}, domain.NewValidationError("Funding source name is required")
	}

	payload := domain.CreateFundingSourcePayload{
		RoutingNumber:   valueOr(in.RoutingNumber, defaultRoutingNumber),
		AccountNumber:   valueOr(in.AccountNumber, defaultAccountNumber),
		BankAccountType: valueOr(in.AccountType, defaultBankAccountType),
		Name:            in.Name,
	}

	var res domain.DwollaFundingSource
	if err := s.provider.PostFollow(ctx, local.URL+"/funding-sources", payload, &res); err != nil {
		return domain.FundingSource{}, err
	}
	return fundingSourceFromResource(res)
}

// ListFundingSources returns a customer's funding sources, always fetched
// fresh from the provider, with removed sources filtered out.
func (s *Service) ListFundingSources(ctx context.Context, customerID string) ([]domain.FundingSource, error) {
	local, ok := s.customers.FindByID(customerID)
	if !ok {
		return nil, &domain.NotFoundError{Resource: "customer", ID: customerID}
	}

	var list domain.DwollaFundingSourceList
	if err := s.provider.Get(ctx, local.URL+"/funding-sources", &list); err != nil {
		return nil, err
	}
	return fundingSourcesFromList(list)
}

// IAVToken requests an Instant Account Verification token for a customer.
func (s *Service) IAVToken(ctx context.Context, customerID string) (string, error) {
	local, ok := s.customers.FindByID(customerID)
	if !ok {
		return "", &domain.NotFoundError{Resource: "customer", ID: customerID}
	}

	var res domain.DwollaIAVToken
	if _, err := s.provider.Post(ctx, local.URL+"/iav-token", nil, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

// EligibleCustomers returns verified customers that hold at least one
// eligible funding source: not removed, and verified unless the caller asks
// to include unverified ones.
func (s *Service) EligibleCustomers(ctx context.Context, includeUnverified bool) ([]domain.EligibleCustomer, error) {
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]domain.EligibleCustomer, 0, len(customers))
	for _, c := range customers {
		if c.Status != domain.CustomerStatusVerified {
			continue
		}

		var list domain.DwollaFundingSourceList
		if err := s.provider.Get(ctx, c.URL+"/funding-sources", &list); err != nil {
			return nil, err
		}
		sources, err := fundingSourcesFromList(list)
		if err != nil {
			return nil, err
		}

		kept := sources[:0]
		for _, fs := range sources {
			if fs.Status != domain.FundingSourceStatusVerified && !includeUnverified {
				continue
			}
			kept = append(kept, fs)
		}
		if len(kept) == 0 {
			log.Printf("level=debug component=app msg=\"customer has no eligible funding source\" customer=%s", c.ID)
			continue
		}
		eligible = append(eligible, domain.EligibleCustomer{Customer: c, FundingSources: kept})
	}
	return eligible, nil
}

// valueOr returns v, or fallback when v is blank.
func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
