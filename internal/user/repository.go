package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aymenmusic/todo-list-2025/internal/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const (
	pgUniqueViolation     = "23505"
	usernameConstraintKey = "users_username_key"
	emailConstraintKey    = "users_email_key"
)

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(ctx context.Context, q utils.DBTX, user *User) error
	GetByID(ctx context.Context, q utils.DBTX, id int) (*User, error)
	GetByUsername(ctx context.Context, q utils.DBTX, username string) (*User, error)
	GetByEmail(ctx context.Context, q utils.DBTX, email string) (*User, error)
	Delete(ctx context.Context, q utils.DBTX, id int) error
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

// Create inserts user and fills in its id and created_at. Unique violations
// are reported as ErrUsernameTaken or ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, q utils.DBTX, user *User) error {
	query := `
		INSERT INTO users (
			username, email, password_hash, created_at
		)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		logrus.WithError(err).Error("Failed to create user")
		return err
	}
	user.CreatedAt = user.CreatedAt.UTC()

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User created successfully")

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, q utils.DBTX, id int) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(q.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, q utils.DBTX, username string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	return scanUser(q.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, q utils.DBTX, email string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(q.QueryRowContext(ctx, query, email))
}

// Delete removes the user. Their todos go with them via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, q utils.DBTX, id int) error {
	result, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	logrus.WithField("user_id", id).Info("User deleted successfully")
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to load user")
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usernameConstraintKey:
		return ErrUsernameTaken
	case emailConstraintKey:
		return ErrEmailTaken
	}
	return nil
}
