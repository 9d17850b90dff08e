package link

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines link data access
type Repository interface {
	Create(ctx context.Context, l *Link) error
	GetByID(ctx context.Context, id uuid.UUID) (*Link, error)
	GetByShortCode(ctx context.Context, code string) (*Link, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Link, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates link repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Link) error {
	query := `
		INSERT INTO links (id, owner_user_id, original_url, short_code, domain, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.OwnerUserID,
		l.OriginalURL,
		l.ShortCode,
		l.Domain,
		l.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Link, error) {
	var l Link
	err := r.db.GetContext(ctx, &l, `SELECT * FROM links WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetByShortCode(ctx context.Context, code string) (*Link, error) {
	var l Link
	err := r.db.GetContext(ctx, &l, `SELECT * FROM links WHERE short_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Link, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var links []*Link
	err := r.db.SelectContext(ctx, &links, `
		SELECT * FROM links
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	return links, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM links`)
	return count, err
}
