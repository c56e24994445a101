package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

const userColumns = `id, name, email, phone, password_hash, role, status,
	verification_token, verification_token_expires_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.Status, &u.VerificationToken, &u.VerificationTokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreatePending checks for a duplicate email and inserts the pending row in
// one transaction, so two concurrent registrations for the same email cannot
// both commit.
func (r *UserRepository) CreatePending(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, u.Email).Scan(&existing)
	if err == nil {
		return repository.ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role, status,
			verification_token, verification_token_expires_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.VerificationToken, u.VerificationTokenExpiresAt)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		// Two registrations can race past the duplicate check; the loser
		// hits the unique index and must still answer as a duplicate.
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	u.Status = entity.StatusPending

	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// ActivateByToken flips a pending user to active and clears the token pair.
// The pending row is locked while checking expiry so the token is single-use
// even under concurrent verification attempts.
func (r *UserRepository) ActivateByToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	var expiresAt *time.Time
	err = tx.QueryRow(ctx, `
		SELECT id, verification_token_expires_at
		FROM users
		WHERE verification_token = $1 AND status = 'pending'
		FOR UPDATE
	`, token).Scan(&id, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if expiresAt == nil || expiresAt.Before(now) {
		return nil, repository.ErrTokenExpired
	}

	u, err := scanUser(tx.QueryRow(ctx, `
		UPDATE users
		SET status = 'active',
			verification_token = NULL,
			verification_token_expires_at = NULL,
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
