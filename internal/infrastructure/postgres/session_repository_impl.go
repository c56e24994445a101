package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (user_id, session_token, expires_at)
		VALUES ($1, $2, $3)
	`, s.UserID, s.Token, s.ExpiresAt)
	return err
}

// ResolveUser maps a bearer token to its user through the sessions join.
// Expired sessions are filtered in SQL rather than garbage-collected.
func (r *SessionRepository) ResolveUser(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role, u.status,
			u.verification_token, u.verification_token_expires_at, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > $2
	`, token, now)

	return scanUser(row)
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_token = $1`, token)
	return err
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
