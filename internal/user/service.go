package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
	"github.com/aymenmusic/todo-list-2025/internal/auth"
	"github.com/aymenmusic/todo-list-2025/internal/cache"
	"github.com/aymenmusic/todo-list-2025/internal/observability"
	"github.com/aymenmusic/todo-list-2025/internal/utils"

	"github.com/sirupsen/logrus"
)

// TodoInvalidator drops every cached todo of a user.
type TodoInvalidator interface {
	InvalidateUser(ctx context.Context, userID int) error
}

// TokenRevoker denies a token id until it expires.
type TokenRevoker interface {
	Enabled() bool
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type UserServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	DeleteUser(ctx context.Context, id int, claims *auth.Claims) error
	Logout(ctx context.Context, claims *auth.Claims) error
}

type UserService struct {
	repo    UserRepositoryInterface
	db      *sql.DB
	withTx  utils.TxFunc
	tokens  *auth.TokenManager
	revoker TokenRevoker
	todos   TodoInvalidator
	metrics *observability.Metrics
}

func NewUserService(
	repo UserRepositoryInterface,
	db *sql.DB,
	tokens *auth.TokenManager,
	revoker TokenRevoker,
	todos TodoInvalidator,
	metrics *observability.Metrics,
) *UserService {
	return &UserService{
		repo:    repo,
		db:      db,
		withTx:  utils.Transactor(db),
		tokens:  tokens,
		revoker: revoker,
		todos:   todos,
		metrics: metrics,
	}
}

// Register creates a user after checking that neither the username nor the
// email is in use. The unique constraints still catch concurrent duplicates.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.register(ctx, input)
	if err != nil {
		s.metrics.AuthEvent("register", "failure")
		return nil, err
	}

	s.metrics.AuthEvent("register", "success")
	return user, nil
}

func (s *UserService) register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := s.ensureAvailable(ctx, s.repo.GetByUsername, input.Username, ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, s.repo.GetByEmail, input.Email, ErrEmailTaken); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}

	err = s.withTx(ctx, func(tx utils.DBTX) error {
		return s.repo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

type lookupFunc func(ctx context.Context, q utils.DBTX, value string) (*User, error)

func (s *UserService) ensureAvailable(ctx context.Context, lookup lookupFunc, value string, taken error) error {
	_, err := lookup(ctx, s.db, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, ErrUserNotFound):
		return nil
	default:
		return err
	}
}

// Login checks the credentials and issues an access token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.repo.GetByUsername(ctx, s.db, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.AuthEvent("login", "failure")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.metrics.AuthEvent("login", "failure")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.AuthEvent("login", "success")
	logrus.WithField("user_id", user.ID).Info("User logged in")

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, s.db, id)
}

// DeleteUser removes the account and its todos, then drops the user's cache
// entries and revokes the presented token. Cache and denylist failures are
// logged and do not undo the deletion.
func (s *UserService) DeleteUser(ctx context.Context, id int, claims *auth.Claims) error {
	err := s.withTx(ctx, func(tx utils.DBTX) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if s.todos != nil {
		if err := s.todos.InvalidateUser(ctx, id); err != nil {
			logrus.WithError(err).WithField("user_id", id).Warn("Failed to invalidate todo cache")
		}
	}

	if claims != nil && s.revoker != nil && s.revoker.Enabled() {
		if err := s.revoker.Revoke(ctx, claims.ID, expiry(claims)); err != nil {
			logrus.WithError(err).WithField("user_id", id).Warn("Failed to revoke token")
		}
	}

	s.metrics.AuthEvent("delete_account", "success")
	return nil
}

// Logout revokes the presented token until it would have expired.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || !s.revoker.Enabled() {
		return apperr.Internal(cache.ErrDisabled)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expiry(claims)); err != nil {
		s.metrics.AuthEvent("logout", "failure")
		return err
	}

	s.metrics.AuthEvent("logout", "success")
	return nil
}

func expiry(claims *auth.Claims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
