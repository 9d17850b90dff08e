package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service grants and inspects entitlements. It implements the payment
// domain's Entitlements collaborator.
type Service struct {
	repo Repository
}

// NewService creates subscription service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Activate grants or extends a user's entitlement after a payment review
func (s *Service) Activate(ctx context.Context, userID uuid.UUID, plan string, expiresAt time.Time) error {
	sub := &Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		Plan:      plan,
		Status:    StatusActive,
		StartedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("plan", plan).
		Time("expires_at", expiresAt).
		Msg("Subscription activated")

	return nil
}

// HasActive reports whether the user holds a live entitlement; used by
// the redirect path to decide ad-free serving. Absence is never an error.
func (s *Service) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub != nil && sub.IsActive(), nil
}
