package domain

// Funding source statuses as reported by Dwolla.
const (
	FundingSourceStatusVerified   = "verified"
	FundingSourceStatusUnverified = "unverified"
)

// FundingSource is the local view of a Dwolla funding source. It is never
// cached in a registry; it is reshaped fresh from the provider on every read.
type FundingSource struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	BankAccountType string `json:"bankAccountType,omitempty"`
	Status          string `json:"status"`
	BankName        string `json:"bankName,omitempty"`
}
