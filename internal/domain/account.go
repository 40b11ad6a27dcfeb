package domain

// Account is the local view of the operator's master Dwolla account, the
// source of outbound payouts.
type Account struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}
