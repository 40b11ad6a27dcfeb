/**
 * @description
 * Transfer flows: payout creation with verification eligibility checks,
 * listing with best-effort endpoint detail enrichment, and the master
 * account/balance reads backing the /me endpoints.
 *
 * @notes
 * - A destination may be unverified only when the caller sets
 *   allowUnverified AND the owning customer is verified. An unverified
 *   customer's unverified account never receives funds.
 * - Detail enrichment fans out with bounded concurrency and degrades a
 *   failed fetch to {url, "Unknown"} instead of failing the list.
 */
package app

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// maxDetailFetches bounds the concurrent funding-source detail fetches
// issued while listing transfers.
const maxDetailFetches = 8

// TransferInput carries the fields accepted by POST /api/transfers.
type TransferInput struct {
	SourceFundingSourceURL      string
	DestinationFundingSourceURL string
	Amount                      float64
	Currency                    string
	AllowUnverified             bool
}

// CreateTransfer validates the payout request, checks source and
// destination eligibility against the provider and submits the transfer.
func (s *Service) CreateTransfer(ctx context.Context, in TransferInput) (domain.Transfer, error) {
	if strings.TrimSpace(in.SourceFundingSourceURL) == "" || strings.TrimSpace(in.DestinationFundingSourceURL) == "" {
		return domain.Transfer{}, domain.NewValidationError("Source and destination funding sources are required")
	}
	if in.Amount <= 0 {
		return domain.Transfer{}, domain.NewValidationError("Amount must be greater than 0")
	}

	var source domain.DwollaFundingSource
	if err := s.provider.Get(ctx, in.SourceFundingSourceURL, &source); err != nil {
		return domain.Transfer{}, err
	}
	if source.Status != domain.FundingSourceStatusVerified {
		return domain.Transfer{}, domain.NewValidationError("Source funding source is not verified")
	}

	var destination domain.DwollaFundingSource
	if err := s.provider.Get(ctx, in.DestinationFundingSourceURL, &destination); err != nil {
		return domain.Transfer{}, err
	}
	if destination.Status != domain.FundingSourceStatusVerified {
		if !in.AllowUnverified {
			return domain.Transfer{}, domain.NewValidationError("Destination funding source is not verified")
		}
		if err := s.requireVerifiedOwner(ctx, destination); err != nil {
			return domain.Transfer{}, err
		}
	}

	payload := domain.CreateTransferPayload{
		Links: domain.Links{
			"source":      {Href: in.SourceFundingSourceURL},
			"destination": {Href: in.DestinationFundingSourceURL},
		},
		Amount: domain.Amount{
			Currency: valueOr(in.Currency, defaultCurrency),
			Value:    strconv.FormatFloat(in.Amount, 'f', 2, 64),
		},
	}

	var res domain.DwollaTransfer
	if err := s.provider.PostFollow(ctx, "/transfers", payload, &res); err != nil {
		return domain.Transfer{}, translateTransferError(err)
	}

	transfer, err := transferFromResource(res)
	if err != nil {
		return domain.Transfer{}, err
	}
	s.transfers.Append(transfer)
	return transfer, nil
}

// requireVerifiedOwner enforces the allowUnverified escape hatch: the
// customer owning the unverified destination must itself be verified.
func (s *Service) requireVerifiedOwner(ctx context.Context, destination domain.DwollaFundingSource) error {
	ownerURL := destination.Links.Href("customer")
	if ownerURL == "" {
		return &domain.MappingError{Message: "destination funding source has no customer link"}
	}

	var owner domain.DwollaCustomer
	if err := s.provider.Get(ctx, ownerURL, &owner); err != nil {
		return err
	}
	if owner.Status != domain.CustomerStatusVerified {
		return domain.NewValidationError("Destination customer is not verified")
	}
	return nil
}

// translateTransferError rewrites known provider error codes into the
// friendlier messages the GUI shows; unknown codes pass through untouched.
func translateTransferError(err error) error {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		return err
	}
	for _, sub := range perr.Errors {
		switch {
		case sub.Code == "InsufficientFunds" || perr.Code == "InsufficientFunds":
			return domain.NewValidationError("Insufficient funds")
		case sub.Code == "Invalid" && strings.Contains(sub.Path, "source"):
			return domain.NewValidationError("Source funding source is not verified")
		case sub.Code == "Invalid" && strings.Contains(sub.Path, "destination"):
			return domain.NewValidationError("Destination funding source is not verified")
		}
	}
	if perr.Code == "InsufficientFunds" {
		return domain.NewValidationError("Insufficient funds")
	}
	return err
}

// ListTransfers fetches up to a page of the master account's transfers,
// replaces the registry snapshot and enriches each record with endpoint
// details.
func (s *Service) ListTransfers(ctx context.Context) ([]domain.TransferDetail, error) {
	accountURL, err := s.accountURL(ctx)
	if err != nil {
		return nil, err
	}

	var list domain.DwollaTransferList
	if err := s.provider.Get(ctx, accountURL+"/transfers?limit="+listPageLimit, &list); err != nil {
		return nil, err
	}

	transfers := make([]domain.Transfer, 0, len(list.Embedded.Transfers))
	for _, res := range list.Embedded.Transfers {
		t, err := transferFromResource(res)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	s.transfers.ReplaceAll(transfers)

	details := make([]domain.TransferDetail, len(transfers))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxDetailFetches)
	for i, t := range transfers {
		details[i].Transfer = t
		wg.Add(2)
		for _, fetch := range []struct {
			url    string
			target *domain.TransferEndpoint
		}{
			{t.SourceURL, &details[i].Source},
			{t.DestinationURL, &details[i].Destination},
		} {
			go func(url string, target *domain.TransferEndpoint) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				*target = s.endpointDetail(ctx, url)
			}(fetch.url, fetch.target)
		}
	}
	wg.Wait()

	return details, nil
}

// endpointDetail fetches a funding source's display name, degrading to
// "Unknown" when the URL is absent or the fetch fails.
func (s *Service) endpointDetail(ctx context.Context, url string) domain.TransferEndpoint {
	detail := domain.TransferEndpoint{URL: url, Name: "Unknown"}
	if url == "" {
		return detail
	}
	var fs domain.DwollaFundingSource
	if err := s.provider.Get(ctx, url, &fs); err != nil {
		log.Printf("level=debug component=app msg=\"transfer endpoint detail fetch failed\" url=%s err=%v", url, err)
		return detail
	}
	if fs.Name != "" {
		detail.Name = fs.Name
	}
	return detail
}

// GetTransfer looks up a transfer in the local registry.
func (s *Service) GetTransfer(id string) (domain.Transfer, error) {
	t, ok := s.transfers.FindByID(id)
	if !ok {
		return domain.Transfer{}, &domain.NotFoundError{Resource: "transfer", ID: id}
	}
	return t, nil
}

// accountURL resolves the master account URL from the API root.
func (s *Service) accountURL(ctx context.Context) (string, error) {
	var root domain.DwollaRoot
	if err := s.provider.Get(ctx, "/", &root); err != nil {
		return "", err
	}
	href := root.Links.Href("account")
	if href == "" {
		return "", &domain.MappingError{Message: "API root has no account link"}
	}
	return href, nil
}

// MasterAccount returns the operator's own account.
func (s *Service) MasterAccount(ctx context.Context) (domain.Account, error) {
	accountURL, err := s.accountURL(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	var res domain.DwollaAccount
	if err := s.provider.Get(ctx, accountURL, &res); err != nil {
		return domain.Account{}, err
	}
	id := res.ID
	if id == "" {
		// Some sandbox responses omit the id field; recover it from the
		// resolved account URL.
		id, err = resourceIDFromLink(accountURL)
		if err != nil {
			return domain.Account{}, err
		}
	}
	return domain.Account{ID: id, URL: accountURL, Name: res.Name}, nil
}

// MasterFundingSources returns the master account's funding sources.
func (s *Service) MasterFundingSources(ctx context.Context) ([]domain.FundingSource, error) {
	accountURL, err := s.accountURL(ctx)
	if err != nil {
		return nil, err
	}

	var list domain.DwollaFundingSourceList
	if err := s.provider.Get(ctx, accountURL+"/funding-sources", &list); err != nil {
		return nil, err
	}
	return fundingSourcesFromList(list)
}

// Balance returns the master account's balance, read from its balance-type
// funding source.
func (s *Service) Balance(ctx context.Context) (domain.DwollaBalance, error) {
	sources, err := s.MasterFundingSources(ctx)
	if err != nil {
		return domain.DwollaBalance{}, err
	}

	for _, fs := range sources {
		if fs.Type != "balance" {
			continue
		}
		var balance domain.DwollaBalance
		if err := s.provider.Get(ctx, fs.URL+"/balance", &balance); err != nil {
			return domain.DwollaBalance{}, err
		}
		return balance, nil
	}
	return domain.DwollaBalance{}, &domain.NotFoundError{Resource: "balance funding source", ID: "me"}
}
