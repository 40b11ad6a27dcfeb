package domain

import "time"

// Transfer statuses as reported by Dwolla, plus the dashboard's "processed"
// alias applied when a transfer_completed webhook lands.
const (
	TransferStatusPending   = "pending"
	TransferStatusProcessed = "processed"
	TransferStatusCancelled = "cancelled"
	TransferStatusFailed    = "failed"
)

// Amount is a currency value as Dwolla represents it: a decimal string plus
// an ISO currency code. The string form avoids floating-point drift.
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// Transfer is the local view of a Dwolla transfer. Records are append-only:
// status is patched by later GETs or webhook events, never deleted.
type Transfer struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Status         string    `json:"status"`
	Amount         Amount    `json:"amount"`
	Created        time.Time `json:"created"`
	SourceURL      string    `json:"sourceUrl"`
	DestinationURL string    `json:"destinationUrl"`
}

// TransferEndpoint is the best-effort detail attached to a listed transfer's
// source or destination. When the funding-source fetch fails the endpoint
// degrades to the URL with name "Unknown" instead of failing the list.
type TransferEndpoint struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// TransferDetail is a Transfer enriched with endpoint details for display.
type TransferDetail struct {
	Transfer
	Source      TransferEndpoint `json:"source"`
	Destination TransferEndpoint `json:"destination"`
}
