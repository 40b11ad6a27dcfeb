/**
 * @description
 * Pure mappers from the Dwolla wire structs to the dashboard's local
 * records. Resource identity lives in `_links.self.href`; the mappers
 * extract the trailing path segment as the ID and fail with a
 * MappingError rather than accept a malformed link.
 */
package app

import (
	"net/url"
	"strings"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// resourceIDFromLink extracts the trailing path segment of a resource URL.
func resourceIDFromLink(href string) (string, error) {
	if strings.TrimSpace(href) == "" {
		return "", &domain.MappingError{Message: "resource has no self link"}
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", &domain.MappingError{Message: "malformed resource link: " + href}
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", &domain.MappingError{Message: "resource link has no ID segment: " + href}
	}
	return id, nil
}

// customerFromResource maps a provider customer to the local record. A
// missing type defaults to personal, matching Dwolla's own default for
// unverified customers.
func customerFromResource(res domain.DwollaCustomer) (domain.Customer, error) {
	selfURL := res.Links.Href("self")
	id, err := resourceIDFromLink(selfURL)
	if err != nil {
		return domain.Customer{}, err
	}
	customerType := res.Type
	if customerType == "" {
		customerType = domain.CustomerTypePersonal
	}
	return domain.Customer{
		ID:        id,
		URL:       selfURL,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Email:     res.Email,
		Phone:     res.Phone,
		Type:      customerType,
		Status:    res.Status,
		CreatedAt: res.Created,
	}, nil
}

// fundingSourceFromResource maps a provider funding source to the local
// record.
func fundingSourceFromResource(res domain.DwollaFundingSource) (domain.FundingSource, error) {
	selfURL := res.Links.Href("self")
	id, err := resourceIDFromLink(selfURL)
	if err != nil {
		return domain.FundingSource{}, err
	}
	return domain.FundingSource{
		ID:              id,
		URL:             selfURL,
		Name:            res.Name,
		Type:            res.Type,
		BankAccountType: res.BankAccountType,
		Status:          res.Status,
		BankName:        res.BankName,
	}, nil
}

// fundingSourcesFromList maps a funding-source collection, dropping
// sources flagged removed.
func fundingSourcesFromList(list domain.DwollaFundingSourceList) ([]domain.FundingSource, error) {
	sources := make([]domain.FundingSource, 0, len(list.Embedded.FundingSources))
	for _, res := range list.Embedded.FundingSources {
		if res.Removed {
			continue
		}
		fs, err := fundingSourceFromResource(res)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fs)
	}
	return sources, nil
}

// transferFromResource maps a provider transfer to the local record,
// carrying the source/destination hrefs for later endpoint enrichment.
func transferFromResource(res domain.DwollaTransfer) (domain.Transfer, error) {
	selfURL := res.Links.Href("self")
	id, err := resourceIDFromLink(selfURL)
	if err != nil {
		return domain.Transfer{}, err
	}
	return domain.Transfer{
		ID:             id,
		URL:            selfURL,
		Status:         res.Status,
		Amount:         res.Amount,
		Created:        res.Created,
		SourceURL:      res.Links.Href("source"),
		DestinationURL: res.Links.Href("destination"),
	}, nil
}
