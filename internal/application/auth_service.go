package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/apperr"
	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
	"github.com/ngocweb/membership-api/pkg/helpers"
	"github.com/ngocweb/membership-api/pkg/mailer"
)

// EmailQueue enqueues outbound mail. Satisfied by helpers.RabbitPublisher.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService implements registration, email verification, login and
// session resolution. All persistent state lives in the repositories;
// the service itself is stateless.
type AuthService struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Queue    EmailQueue
	Index    *UserIndex
	Logger   *logrus.Logger

	VerifyTokenTTL time.Duration
	VerifyEmailURL string
	SessionTTL     time.Duration
	MailEnabled    bool
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// NormalizeEmail trims whitespace and lowercases; user uniqueness is defined
// over this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a pending user and dispatches the verification email.
// The duplicate check and insert run in one transaction; the email dispatch
// runs after commit, and its failure is logged but does not undo the user
// row (accepted inconsistency: the account exists, unnotified).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	token, err := helpers.NewVerificationToken()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	expiresAt := time.Now().Add(s.VerifyTokenTTL)

	u := &entity.User{
		Name:                       in.Name,
		Email:                      NormalizeEmail(in.Email),
		Phone:                      in.Phone,
		PasswordHash:               hash,
		Role:                       entity.RoleUser,
		Status:                     entity.StatusPending,
		VerificationToken:          &token,
		VerificationTokenExpiresAt: &expiresAt,
	}
	if err := s.Users.CreatePending(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}

	s.sendVerificationEmail(ctx, u, token)
	_ = s.Index.IndexUser(ctx, u)
	return u, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, u *entity.User, token string) {
	link := s.VerifyEmailURL + "?token=" + token
	if !s.MailEnabled || s.Queue == nil {
		if s.Logger != nil {
			s.Logger.WithField("verify_link", link).Info("mail sending disabled; verification link logged")
		}
		return
	}
	job := mailer.NewVerificationJob(u.Email, u.Name, link)
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		// The user row is already committed; surfacing this to the client
		// would mask a registration that in fact succeeded.
		s.Logger.WithError(err).WithField("email", u.Email).Error("verification email enqueue failed")
	}
}

// VerifyEmail activates the pending user holding the token. Tokens are
// single-use: activation clears them, so a second attempt fails.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrInvalidLink
	}
	u, err := s.Users.ActivateByToken(ctx, token, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrLinkUnknown
		case errors.Is(err, repository.ErrTokenExpired):
			return nil, ErrLinkExpired
		default:
			return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
		}
	}
	_ = s.Index.IndexUser(ctx, u)
	return u, nil
}

// Login authenticates an active user and issues a fresh session. Unknown
// email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, *entity.Session, error) {
	if email == "" || password == "" {
		return nil, nil, ErrMissingCredentials
	}
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrBadCredentials
		}
		return nil, nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if !u.IsActive() {
		return nil, nil, ErrNotVerified
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, nil, ErrBadCredentials
	}

	token, err := helpers.NewSessionToken()
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	sess := &entity.Session{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.SessionTTL),
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	return u, sess, nil
}

// Me resolves a session cookie to its active user.
func (s *AuthService) Me(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	u, err := s.Sessions.ResolveUser(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}
	return u, nil
}

// Logout discards the session row. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, token); err != nil {
		return apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	return nil
}
