package payment

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRequest for POST /payments
type SubmitRequest struct {
	TxID   string `json:"txid" validate:"required,min=26,max=128"`
	Wallet string `json:"wallet" validate:"required,max=128"`
	Plan   string `json:"plan" validate:"required,plan_id"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ReviewRequest for POST /payments/{id}/review
type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,review_decision"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID `json:"id"`
	TxID       string    `json:"txid"`
	Asset      string    `json:"asset"`
	Amount     string    `json:"amount"`
	Plan       string    `json:"plan"`
	Status     string    `json:"status"`
	UserID     uuid.UUID `json:"user_id"`
	ReviewedAt *string   `json:"reviewed_at,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

// PaymentResponseFromEntity converts a payment to its API shape
func PaymentResponseFromEntity(p *Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:        p.ID,
		TxID:      p.TxID,
		Asset:     string(p.Asset),
		Amount:    p.Amount.String(),
		Plan:      string(p.Plan),
		Status:    string(p.Status),
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}

	if p.ReviewedAt.Valid {
		reviewed := p.ReviewedAt.Time.Format(time.RFC3339)
		resp.ReviewedAt = &reviewed
	}

	return resp
}
