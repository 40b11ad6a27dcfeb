/**
 * @description
 * This file defines the core application service for the dashboard. The
 * service composes the Dwolla client with the local registries to implement
 * the create/list/verify/pay flows; HTTP handlers stay thin on top of it.
 *
 * Key features:
 * - The provider is consumed through a narrow interface so flows can be
 *   tested against a stub without a network.
 * - Local validation and duplicate checks run before any provider call.
 * - Reconfiguring credentials resets every registry; the caches are
 *   rebuildable provider snapshots, never authoritative state.
 *
 * @dependencies
 * - internal/domain for records, wire models and the error taxonomy.
 * - internal/store for the registry interfaces.
 * - pkg/dwolla for the concrete client wired in at bootstrap.
 */
package app

import (
	"context"
	"strings"

	"github.com/paylab/dwolla-dashboard/internal/domain"
	"github.com/paylab/dwolla-dashboard/internal/store"
	"github.com/paylab/dwolla-dashboard/pkg/dwolla"
)

// Dwolla sandbox convenience defaults, applied when the GUI omits optional
// verification or bank fields.
const (
	defaultSSN         = "1234"
	defaultDateOfBirth = "1990-01-01"
	defaultAddress1    = "123 Main St"
	defaultCity        = "San Francisco"
	defaultState       = "CA"
	defaultPostalCode  = "94105"

	defaultRoutingNumber   = "222222226"
	defaultAccountNumber   = "123456789"
	defaultBankAccountType = "checking"

	defaultCurrency = "USD"

	// listPageLimit caps collection fetches; the dashboard never paginates
	// past the first page.
	listPageLimit = "200"
)

// ProviderClient is the slice of the Dwolla client the flows depend on.
type ProviderClient interface {
	Configured() bool
	SetCredentials(ctx context.Context, key, secret string) (int64, error)
	Status() dwolla.TokenStatus
	Get(ctx context.Context, pathOrURL string, target any) error
	Post(ctx context.Context, pathOrURL string, body, target any) (string, error)
	PostFollow(ctx context.Context, pathOrURL string, body, target any) error
}

// Service implements the dashboard flows over the provider and registries.
type Service struct {
	provider  ProviderClient
	customers store.CustomerStore
	transfers store.TransferStore
	webhooks  store.WebhookBuffer
}

// NewService creates a new Service with its dependencies.
func NewService(provider ProviderClient, customers store.CustomerStore, transfers store.TransferStore, webhooks store.WebhookBuffer) *Service {
	return &Service{
		provider:  provider,
		customers: customers,
		transfers: transfers,
		webhooks:  webhooks,
	}
}

// ConfigureCredentials replaces the API key/secret and validates them by
// requesting a token. All registries are cleared even when the new
// credentials are rejected: the provider has already replaced the old
// key/secret by then, so local state from the previous credential scope
// must not survive.
func (s *Service) ConfigureCredentials(ctx context.Context, key, secret string) (int64, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(secret) == "" {
		return 0, domain.NewValidationError("API key and secret are required")
	}

	expiresIn, err := s.provider.SetCredentials(ctx, strings.TrimSpace(key), strings.TrimSpace(secret))
	s.customers.Clear()
	s.transfers.Clear()
	s.webhooks.Clear()
	if err != nil {
		return 0, err
	}
	return expiresIn, nil
}

// ConfigStatus reports the credential and token state for the GUI.
func (s *Service) ConfigStatus() dwolla.TokenStatus {
	return s.provider.Status()
}
