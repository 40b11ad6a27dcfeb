/**
 * @description
 * This file defines the dashboard-side records kept in the local registries.
 * They are display caches reshaped from Dwolla resources, never authoritative:
 * all of them can be rebuilt from the provider at any time.
 */
package domain

import "time"

// Customer statuses as reported by Dwolla.
const (
	CustomerStatusUnverified = "unverified"
	CustomerStatusVerified   = "verified"
	CustomerStatusDocument   = "document"
	CustomerStatusRetry      = "retry"
	CustomerStatusSuspended  = "suspended"
)

// Customer types.
const (
	CustomerTypePersonal = "personal"
	CustomerTypeBusiness = "business"
)

// Customer is the local view of a Dwolla customer.
type Customer struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// EligibleCustomer is a verified customer together with the funding sources
// that survived the eligibility filter, as returned by /customers/eligible.
type EligibleCustomer struct {
	Customer
	FundingSources []FundingSource `json:"fundingSources"`
}
