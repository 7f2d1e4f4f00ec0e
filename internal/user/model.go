package user

import (
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
	"github.com/aymenmusic/todo-list-2025/internal/auth"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is a freshly issued access token and the user it belongs to.
type LoginResult struct {
	Token     *auth.IssuedToken
	ExpiresIn int64
	User      *User
}

var (
	ErrMissingFields      = apperr.Validation("Missing required fields", "username, email and password are required")
	ErrMissingCredentials = apperr.Validation("Missing required fields", "username and password are required")
	ErrUsernameTaken      = apperr.Validation("Username already exists", "Choose a different username")
	ErrEmailTaken         = apperr.Validation("Email already exists", "An account with this email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid username or password", "Check your credentials and try again")
	ErrUserNotFound       = apperr.NotFound("User not found", "The user no longer exists")
)
