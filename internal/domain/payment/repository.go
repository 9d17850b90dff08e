package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines payment ledger data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ExistsByTxID(ctx context.Context, txid string) (bool, error)
	// Transition moves a pending record to the given status atomically.
	// Returns nil when no pending record with that id exists.
	Transition(ctx context.Context, id uuid.UUID, to Status) (*Payment, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, txid, asset, amount, plan, wallet, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.TxID,
		p.Asset,
		p.Amount,
		p.Plan,
		p.Wallet,
		p.UserID,
		p.Status,
		p.CreatedAt,
	)
	if err != nil {
		// The unique index on txid is the authoritative duplicate check;
		// it closes the race two concurrent submissions would otherwise win
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ExistsByTxID(ctx context.Context, txid string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM payments WHERE txid = $1)`, txid)
	return exists, err
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, to Status) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `
		UPDATE payments
		SET status = $2, reviewed_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING *
	`, id, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows := []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `SELECT status, count(*) AS count FROM payments GROUP BY status`)
	if err != nil {
		return nil, err
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
