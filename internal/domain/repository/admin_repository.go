package repository

import (
	"context"
	"time"

	"github.com/ngocweb/membership-api/internal/domain/entity"
)

// AdminTx is one open transaction over which the role-change guard pipeline
// runs. Caller and target rows are read with row locks so that concurrent
// role changes serialize; the transaction is committed only if every guard
// passed, and Rollback is always safe to defer.
type AdminTx interface {
	// CallerBySession resolves and row-locks the caller's session+user
	// atomically. ErrNotFound when the session is unknown or expired.
	CallerBySession(ctx context.Context, token string, now time.Time) (*entity.User, error)

	// TargetByEmail resolves and row-locks the target user by normalized
	// email. ErrNotFound when absent.
	TargetByEmail(ctx context.Context, email string) (*entity.User, error)

	// AdminCount recomputes the number of admins under this transaction's
	// locks (last-admin guard).
	AdminCount(ctx context.Context) (int, error)

	UpdateRole(ctx context.Context, userID, role string) error

	// RefreshSession slides the caller's session expiry after a successful
	// privileged action.
	RefreshSession(ctx context.Context, token string, expiresAt time.Time) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// AdminRepository opens role-change transactions.
type AdminRepository interface {
	Begin(ctx context.Context) (AdminTx, error)
}
