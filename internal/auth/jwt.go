package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued access token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrMissingToken = apperr.Unauthorized("Missing Authorization Header", "Request does not contain an access token")
	ErrInvalidToken = apperr.Unauthorized("Invalid token", "Token is malformed or its signature is invalid")
	ErrExpiredToken = apperr.Unauthorized("Token has expired", "Please log in again")
	ErrRevokedToken = apperr.Unauthorized("Token has been revoked", "Please log in again")
)

type TokenType string

const AccessToken TokenType = "access"

// Claims carries the user id as the string subject.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// UserID coerces the subject back to an integer user id.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenManager signs and verifies HS256 bearer tokens with a server-side
// secret. It is built once at startup and shared by handlers.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of tokens issued by IssueToken.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// IssueToken creates a token for userID that expires after the manager's TTL.
func (m *TokenManager) IssueToken(userID int) (*IssuedToken, error) {
	return m.issueToken(userID, m.ttl)
}

func (m *TokenManager) issueToken(userID int, ttl time.Duration) (*IssuedToken, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	id := uuid.NewString()

	claims := Claims{
		Type: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ID:        id,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{Token: signed, ID: id, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates signature, expiry and token type.
func (m *TokenManager) VerifyToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != AccessToken {
		return nil, ErrInvalidToken
	}

	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	return claims, nil
}
