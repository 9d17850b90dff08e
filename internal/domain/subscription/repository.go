package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines subscription data access
type Repository interface {
	Upsert(ctx context.Context, s *Subscription) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates subscription repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, s *Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, plan, status, started_at, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET plan = EXCLUDED.plan,
		    status = EXCLUDED.status,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Plan, s.Status, s.StartedAt, s.ExpiresAt, time.Now(),
	)
	return err
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `SELECT * FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
