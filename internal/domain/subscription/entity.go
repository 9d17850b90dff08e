package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status represents subscription status
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Subscription is a user's paid entitlement, created or extended when a
// reviewer marks a payment active.
type Subscription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Plan      string    `db:"plan" json:"plan"`
	Status    Status    `db:"status" json:"status"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsActive checks whether the entitlement is live right now
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive && time.Now().Before(s.ExpiresAt)
}
