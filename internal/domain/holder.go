package domain

import "time"

// Holder is the client owning one or more accounts. Only the fields the
// ledger references are kept; KYC data lives elsewhere.
type Holder struct {
	ID        string
	FirstName string
	LastName  string
	BirthDate time.Time
	Address   string
	CreatedAt time.Time
}
