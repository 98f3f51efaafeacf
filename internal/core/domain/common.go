package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// User IDs are opaque strings supplied by the caller; the core performs no
// authentication of its own.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
