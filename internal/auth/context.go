package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "userID"
	ClaimsKey = "tokenClaims"
)

// GetUserIDFromContext extracts userID from Gin context
func GetUserIDFromContext(c *gin.Context) (int, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(int)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type")
	}

	return id, nil
}

// GetClaimsFromContext returns the verified token claims set by the auth
// middleware.
func GetClaimsFromContext(c *gin.Context) (*Claims, error) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, fmt.Errorf("token claims not found in context")
	}

	claims, ok := value.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims type")
	}

	return claims, nil
}
