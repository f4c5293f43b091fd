package domain

import "time"

// LedgerEntry is one delivered URL with its first delivery time,
// as persisted between runs.
type LedgerEntry struct {
	URL         string    `json:"url"`
	DeliveredAt time.Time `json:"delivered_at"`
}
