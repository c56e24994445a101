package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/apperr"
	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

// AdminService carries the privileged operations: role changes and user
// search. Role changes are the one compound authorize-then-mutate contract
// in the system.
type AdminService struct {
	Admin    repository.AdminRepository
	Sessions repository.SessionRepository
	Index    *UserIndex
	Logger   *logrus.Logger

	SessionTTL time.Duration
}

// ChangeRole runs the guard pipeline over one transaction. Every guard
// short-circuits with the transaction rolled back (the deferred Rollback);
// the commit happens only after the role update and the caller's session
// refresh both succeed.
//
// Guard order: session -> caller active -> caller admin -> target exists ->
// self-demotion -> no-op -> last admin.
func (s *AdminService) ChangeRole(ctx context.Context, sessionToken, targetEmail, role string) error {
	if sessionToken == "" {
		return ErrNotLoggedIn
	}
	if targetEmail == "" || !entity.ValidRole(role) {
		return ErrInvalidInput
	}
	email := NormalizeEmail(targetEmail)

	tx, err := s.Admin.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	caller, err := tx.CallerBySession(ctx, sessionToken, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionInvalid
		}
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if !caller.IsActive() {
		return ErrAccountInactive
	}
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}

	target, err := tx.TargetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTargetNotFound
		}
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}

	if target.ID == caller.ID && role != entity.RoleAdmin {
		return ErrSelfDemotion
	}
	if target.Role == role {
		return ErrSameRole
	}
	if target.Role == entity.RoleAdmin && role != entity.RoleAdmin {
		// Recomputed under the row locks taken above, so two concurrent
		// demotions cannot both see count > 1.
		n, err := tx.AdminCount(ctx)
		if err != nil {
			return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
		}
		if n <= 1 {
			return ErrLastAdmin
		}
	}

	if err := tx.UpdateRole(ctx, target.ID, role); err != nil {
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	// Sliding expiry on a successful privileged action.
	if err := tx.RefreshSession(ctx, sessionToken, time.Now().Add(s.SessionTTL)); err != nil {
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"caller_id": caller.ID,
			"target_id": target.ID,
			"role":      role,
		}).Info("role changed")
	}
	target.Role = role
	_ = s.Index.IndexUser(ctx, target)
	return nil
}

// SearchUsers lets an active admin query the Elasticsearch mirror.
func (s *AdminService) SearchUsers(ctx context.Context, sessionToken, q string, size int) ([]map[string]any, error) {
	if sessionToken == "" {
		return nil, ErrNotLoggedIn
	}
	caller, err := s.Sessions.ResolveUser(ctx, sessionToken, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if !caller.IsActive() {
		return nil, ErrAccountInactive
	}
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}
	res, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	return res, nil
}
