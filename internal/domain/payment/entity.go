package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinkr/clinkr-api/internal/explorer"
)

// Status represents payment review status. Records start pending and
// move exactly once to active or rejected; never back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Payment is one verified chain payment funding a subscription.
// Amount is always the plan's canonical required amount, not the
// observed on-chain amount, so over-payment cannot alter billing.
// Records are never deleted; rejected ones stay for the audit trail.
type Payment struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TxID       string          `db:"txid" json:"txid"`
	Asset      explorer.Asset  `db:"asset" json:"asset"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Plan       PlanID          `db:"plan" json:"plan"`
	Wallet     string          `db:"wallet" json:"wallet"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	Status     Status          `db:"status" json:"status"`
	ReviewedAt sql.NullTime    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// IsResolved reports whether the record already left pending
func (p *Payment) IsResolved() bool {
	return p.Status != StatusPending
}
