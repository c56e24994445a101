package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

// In-memory fakes implementing the repository interfaces, keyed the same
// way the SQL implementations are.

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byToken map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*entity.User{},
		byToken: map[string]*entity.User{},
	}
}

func (r *fakeUserRepo) add(u *entity.User) *entity.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byEmail[u.Email] = u
	if u.VerificationToken != nil {
		r.byToken[*u.VerificationToken] = u
	}
	return u
}

func (r *fakeUserRepo) CreatePending(_ context.Context, u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.add(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ActivateByToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	u, ok := r.byToken[token]
	if !ok || u.Status != entity.StatusPending {
		return nil, repository.ErrNotFound
	}
	if u.VerificationTokenExpiresAt == nil || u.VerificationTokenExpiresAt.Before(now) {
		return nil, repository.ErrTokenExpired
	}
	delete(r.byToken, token)
	u.Status = entity.StatusActive
	u.VerificationToken = nil
	u.VerificationTokenExpiresAt = nil
	u.UpdatedAt = now
	return u, nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
	users    *fakeUserRepo
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.Session{}, users: users}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.sessions[s.Token] = s
	return nil
}

func (r *fakeSessionRepo) ResolveUser(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	s, ok := r.sessions[token]
	if !ok || !s.Valid(now) {
		return nil, repository.ErrNotFound
	}
	return r.users.GetByID(ctx, s.UserID)
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type recordingQueue struct {
	published []any
	err       error
}

func (q *recordingQueue) PublishJSON(_ context.Context, body any) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, body)
	return nil
}
