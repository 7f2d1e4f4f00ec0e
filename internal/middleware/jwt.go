package middleware

import (
	"context"
	"strings"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
	"github.com/aymenmusic/todo-list-2025/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errBadAuthHeader = apperr.Unauthorized("Missing Authorization Header", "Expected 'Authorization: Bearer <JWT>'")

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware verifies the bearer token and stores the user id and
// claims in the context. A nil revoked skips the denylist check.
func AuthMiddleware(tokens *auth.TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Abort(c, auth.ErrMissingToken)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperr.Abort(c, errBadAuthHeader)
			return
		}

		claims, err := tokens.VerifyToken(parts[1])
		if err != nil {
			apperr.Abort(c, err)
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail open: the signature and expiry were already checked
				logrus.WithError(err).Warn("Token denylist lookup failed")
			} else if isRevoked {
				apperr.Abort(c, auth.ErrRevokedToken)
				return
			}
		}

		userID, err := claims.UserID()
		if err != nil {
			apperr.Abort(c, err)
			return
		}

		c.Set(auth.UserIDKey, userID)
		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}
