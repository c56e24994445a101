package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ngocweb/membership-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations. Services
// translate these into their user-facing taxonomy.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrTokenExpired   = errors.New("verification token expired")
)

// UserRepository defines user-directory persistence. Emails are expected
// pre-normalized (trimmed, lowercased) by the caller.
type UserRepository interface {
	// CreatePending inserts a status=pending user inside one transaction,
	// failing with ErrDuplicateEmail when the email is already taken.
	CreatePending(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// ActivateByToken flips a pending user to active and clears the token
	// pair, all in one transaction. ErrNotFound when no pending user holds
	// the token; ErrTokenExpired when it is past its expiry (the user stays
	// pending and the token stays set).
	ActivateByToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
}
