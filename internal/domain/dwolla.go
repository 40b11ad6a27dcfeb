/**
 * @description
 * This file defines the Go structs that map to the HAL(+JSON) shapes used by
 * the Dwolla API. These models are used to construct request bodies and parse
 * responses at the client boundary, so field presence is validated by the
 * type system instead of trusting dynamic maps.
 *
 * @notes
 * - Dwolla resources carry their identity in `_links.self.href`; the mappers
 *   extract the trailing path segment as the resource ID.
 * - Embedded collections use Dwolla's exact JSON keys (`funding-sources`).
 */
package domain

import "time"

// Link is a single HAL link.
type Link struct {
	Href string `json:"href"`
}

// Links is the `_links` object attached to every Dwolla resource.
type Links map[string]Link

// Href returns the href for a named link, or "" when absent.
func (l Links) Href(name string) string {
	return l[name].Href
}

// --- Customers ---

// DwollaCustomer is a customer resource as returned by Dwolla.
type DwollaCustomer struct {
	Links     Links     `json:"_links"`
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Type      string    `json:"type,omitempty"`
	Status    string    `json:"status"`
	Created   time.Time `json:"created"`
}

// DwollaCustomerList is the paginated customer collection.
type DwollaCustomerList struct {
	Links    Links `json:"_links"`
	Embedded struct {
		Customers []DwollaCustomer `json:"customers"`
	} `json:"_embedded"`
	Total int `json:"total"`
}

// CreateCustomerPayload is the body POSTed to /customers.
type CreateCustomerPayload struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Type         string `json:"type,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	BusinessType string `json:"businessType,omitempty"`
}

// UpgradeCustomerPayload is the body POSTed to a customer URL to run KYC
// verification, merging stored identity with supplied personal details.
type UpgradeCustomerPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// --- Funding sources ---

// DwollaFundingSource is a funding-source resource as returned by Dwolla.
type DwollaFundingSource struct {
	Links           Links  `json:"_links"`
	ID              string `json:"id"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	BankAccountType string `json:"bankAccountType,omitempty"`
	Name            string `json:"name"`
	BankName        string `json:"bankName,omitempty"`
	Removed         bool   `json:"removed"`
}

// DwollaFundingSourceList is the funding-source collection for a customer
// or for the master account.
type DwollaFundingSourceList struct {
	Links    Links `json:"_links"`
	Embedded struct {
		FundingSources []DwollaFundingSource `json:"funding-sources"`
	} `json:"_embedded"`
}

// CreateFundingSourcePayload is the body POSTed to
// {customer}/funding-sources.
type CreateFundingSourcePayload struct {
	RoutingNumber   string `json:"routingNumber"`
	AccountNumber   string `json:"accountNumber"`
	BankAccountType string `json:"bankAccountType"`
	Name            string `json:"name"`
}

// DwollaBalance is the balance of a balance-type funding source.
type DwollaBalance struct {
	Balance     Amount    `json:"balance"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// DwollaIAVToken is the response to an IAV token request.
type DwollaIAVToken struct {
	Token string `json:"token"`
}

// --- Transfers ---

// DwollaTransfer is a transfer resource as returned by Dwolla.
type DwollaTransfer struct {
	Links   Links     `json:"_links"`
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Amount  Amount    `json:"amount"`
	Created time.Time `json:"created"`
}

// DwollaTransferList is the transfer collection for an account.
type DwollaTransferList struct {
	Links    Links `json:"_links"`
	Embedded struct {
		Transfers []DwollaTransfer `json:"transfers"`
	} `json:"_embedded"`
	Total int `json:"total"`
}

// CreateTransferPayload is the body POSTed to /transfers.
type CreateTransferPayload struct {
	Links  Links  `json:"_links"`
	Amount Amount `json:"amount"`
}

// --- Root / account ---

// DwollaRoot is the API root, whose account link identifies the master
// account owned by the configured credentials.
type DwollaRoot struct {
	Links Links `json:"_links"`
}

// DwollaAccount is the master account resource.
type DwollaAccount struct {
	Links Links  `json:"_links"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// --- Webhooks ---

// DwollaWebhookPayload is the body Dwolla POSTs to the webhook endpoint.
type DwollaWebhookPayload struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	ResourceID string    `json:"resourceId"`
	Timestamp  time.Time `json:"timestamp"`
	Links      Links     `json:"_links"`
}
