package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Begin(ctx context.Context) (repository.AdminTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &adminTx{tx: tx}, nil
}

// adminTx holds the one open transaction the role-change guard pipeline
// threads through. FOR UPDATE on both caller and target rows is what makes
// two concurrent role changes serialize instead of interleave; without it,
// both could pass the last-admin check before either commits.
type adminTx struct {
	tx pgx.Tx
}

func (t *adminTx) CallerBySession(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role, u.status,
			u.verification_token, u.verification_token_expires_at, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > $2
		FOR UPDATE OF u, s
		LIMIT 1
	`, token, now)
	return scanUser(row)
}

func (t *adminTx) TargetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = $1
		FOR UPDATE
		LIMIT 1
	`, email)
	return scanUser(row)
}

func (t *adminTx) AdminCount(ctx context.Context) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = 'admin'`).Scan(&n)
	return n, err
}

func (t *adminTx) UpdateRole(ctx context.Context, userID, role string) error {
	res, err := t.tx.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = now() WHERE id = $2
	`, role, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *adminTx) RefreshSession(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE sessions SET expires_at = $1 WHERE session_token = $2
	`, expiresAt, token)
	return err
}

func (t *adminTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback after Commit is a no-op, so callers can always defer it.
func (t *adminTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

var _ repository.AdminRepository = (*AdminRepository)(nil)
