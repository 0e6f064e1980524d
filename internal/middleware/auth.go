package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager-be/internal/jwt"
)

// IdentityKey is the gin context key holding the authenticated Identity
const IdentityKey = "auth.identity"

// Identity is the authenticated caller, taken from verified token claims
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's Identity for the handlers behind it. Missing or malformed
// credentials get 401; a token that fails verification gets 403.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Access denied: no token provided.",
			})
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Access denied: malformed token.",
			})
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Access forbidden: invalid token.",
			})
			return
		}

		c.Set(IdentityKey, Identity{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok && identity.UserID != ""
}

// bearerToken extracts the token from "Bearer <token>". The second
// space-separated field must be present and non-empty.
func bearerToken(header string) (string, bool) {
	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token, _, _ := strings.Cut(rest, " ")
	if token == "" {
		return "", false
	}
	return token, true
}
