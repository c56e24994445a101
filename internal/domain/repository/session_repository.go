package repository

import (
	"context"
	"time"

	"github.com/ngocweb/membership-api/internal/domain/entity"
)

// SessionRepository persists bearer sessions in the database.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error

	// ResolveUser joins a non-expired session to its user. ErrNotFound when
	// the token is unknown or expired.
	ResolveUser(ctx context.Context, token string, now time.Time) (*entity.User, error)

	Delete(ctx context.Context, token string) error
}
