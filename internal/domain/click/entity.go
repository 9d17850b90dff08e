package click

import (
	"time"

	"github.com/google/uuid"
)

// Click is one classified redirect hit. The verdict is decided at
// ingestion and immutable afterwards; reclassification means a new
// analysis pass, never a mutation of history. IPFingerprint is a salted
// one-way hash; the raw IP is never persisted.
type Click struct {
	ID            uuid.UUID `db:"id" json:"id"`
	LinkID        uuid.UUID `db:"link_id" json:"link_id"`
	ShortCode     string    `db:"short_code" json:"short_code"`
	IPFingerprint string    `db:"ip_fingerprint" json:"ip_fingerprint"`
	UserAgent     string    `db:"user_agent" json:"user_agent"`
	IsValid       bool      `db:"is_valid" json:"is_valid"`
	Reason        Reason    `db:"reason" json:"reason,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Reason explains an invalid verdict
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBotAgent    Reason = "bot_user_agent"
	ReasonRateLimited Reason = "rate_limited"
)

// Stats aggregates verdicts for one link
type Stats struct {
	Total   int `db:"total" json:"total"`
	Valid   int `db:"valid" json:"valid"`
	Invalid int `db:"invalid" json:"invalid"`
}
