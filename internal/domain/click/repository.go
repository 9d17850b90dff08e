package click

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines click log data access. Rows are insert-only;
// verdicts are never updated once written.
type Repository interface {
	Create(ctx context.Context, c *Click) error
	ListByLinkID(ctx context.Context, linkID uuid.UUID, limit int) ([]*Click, error)
	StatsByLinkID(ctx context.Context, linkID uuid.UUID) (*Stats, error)
	CountAll(ctx context.Context) (total, valid int, err error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates click repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Click) error {
	query := `
		INSERT INTO clicks (id, link_id, short_code, ip_fingerprint, user_agent, is_valid, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.LinkID,
		c.ShortCode,
		c.IPFingerprint,
		c.UserAgent,
		c.IsValid,
		c.Reason,
		c.CreatedAt,
	)
	return err
}

func (r *repository) ListByLinkID(ctx context.Context, linkID uuid.UUID, limit int) ([]*Click, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var clicks []*Click
	err := r.db.SelectContext(ctx, &clicks, `
		SELECT * FROM clicks
		WHERE link_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, linkID, limit)
	return clicks, err
}

func (r *repository) StatsByLinkID(ctx context.Context, linkID uuid.UUID) (*Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			count(*) AS total,
			count(*) FILTER (WHERE is_valid) AS valid,
			count(*) FILTER (WHERE NOT is_valid) AS invalid
		FROM clicks
		WHERE link_id = $1
	`, linkID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CountAll(ctx context.Context) (int, int, error) {
	var row struct {
		Total int `db:"total"`
		Valid int `db:"valid"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT count(*) AS total, count(*) FILTER (WHERE is_valid) AS valid FROM clicks
	`)
	return row.Total, row.Valid, err
}
