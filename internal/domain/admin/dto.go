package admin

import "time"

// LoginRequest exchanges the operator access key for a token
type LoginRequest struct {
	AccessKey string `json:"access_key" validate:"required"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DashboardResponse is the operator console summary
type DashboardResponse struct {
	TotalLinks       int `json:"total_links"`
	TotalClicks      int `json:"total_clicks"`
	ValidClicks      int `json:"valid_clicks"`
	InvalidClicks    int `json:"invalid_clicks"`
	PaymentsPending  int `json:"payments_pending"`
	PaymentsActive   int `json:"payments_active"`
	PaymentsRejected int `json:"payments_rejected"`
}
