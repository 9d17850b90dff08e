package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Entitlements is the subscription collaborator notified when a
// reviewed payment goes active
type Entitlements interface {
	Activate(ctx context.Context, userID uuid.UUID, plan string, expiresAt time.Time) error
}

// Service is the payment ledger guard: it owns the txid-uniqueness
// invariant and the pending -> active/rejected lifecycle.
type Service struct {
	repo         Repository
	verifier     *Verifier
	entitlements Entitlements
}

// NewService creates payment service
func NewService(repo Repository, verifier *Verifier, entitlements Entitlements) *Service {
	return &Service{
		repo:         repo,
		verifier:     verifier,
		entitlements: entitlements,
	}
}

// Submit verifies a claimed transaction and records a pending payment.
// The duplicate check runs before verification to save the network
// round trip, and again inside Create via the unique index to close the
// concurrent-submission race.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, txid, wallet string, plan PlanID) (*Payment, error) {
	terms, ok := Terms(plan)
	if !ok {
		return nil, ErrUnknownPlan
	}

	exists, err := s.repo.ExistsByTxID(ctx, txid)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTransaction
	}

	result, err := s.verifier.Verify(ctx, txid, terms.Amount, terms.Asset)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		if result.Reason == ReasonMalformedID {
			return nil, ErrMalformedTxID
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransaction, result.Reason)
	}

	p := &Payment{
		ID:        uuid.New(),
		TxID:      txid,
		Asset:     terms.Asset,
		Amount:    terms.Amount, // canonical plan amount, observed excess is ignored
		Plan:      plan,
		Wallet:    wallet,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", p.ID.String()).
		Str("asset", string(p.Asset)).
		Str("plan", string(p.Plan)).
		Str("observed_amount", result.ObservedAmount.String()).
		Msg("Payment verified and recorded")

	return p, nil
}

// Review resolves a pending payment. Only pending -> active and
// pending -> rejected are legal; re-reviewing a resolved record fails.
func (s *Service) Review(ctx context.Context, id uuid.UUID, decision Status) (*Payment, error) {
	if decision != StatusActive && decision != StatusRejected {
		return nil, ErrInvalidDecision
	}

	p, err := s.repo.Transition(ctx, id, decision)
	if err != nil {
		return nil, err
	}
	if p == nil {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrPaymentNotFound
		}
		return nil, ErrInvalidStateTransition
	}

	if decision == StatusActive {
		terms, _ := Terms(p.Plan)
		expiresAt := terms.ExpiryFrom(time.Now())
		if err := s.entitlements.Activate(ctx, p.UserID, string(p.Plan), expiresAt); err != nil {
			// The review itself is committed; the activation signal is
			// the collaborator's to retry
			log.Error().Err(err).
				Str("payment_id", p.ID.String()).
				Str("user_id", p.UserID.String()).
				Msg("Failed to activate entitlement after review")
		}
	}

	return p, nil
}

// Get returns one payment record
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}
