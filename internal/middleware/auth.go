package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/whatwillyoucook/backend/internal/service"
	"github.com/whatwillyoucook/backend/internal/types"
)

// identityKey is the gin context key the authenticated identity lives under.
const identityKey = "identity"

// CookieName is the session cookie carrying the token.
const CookieName = "token"

// TokenValidator verifies a raw token and returns the canonical identity.
type TokenValidator interface {
	ValidateToken(token string) (*types.Identity, error)
}

// RequireAuth extracts the token (httpOnly cookie first, then a Bearer
// header), verifies it, and attaches the canonical identity to the request
// context. Every protected handler runs behind this gate; none of them
// look at token claims directly.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		identity, err := validator.ValidateToken(token)
		if err != nil {
			// A token that verifies but carries no usable subject gets its
			// own message; everything else is a signature/expiry failure.
			msg := "Invalid or expired token"
			if errors.Is(err, service.ErrInvalidPayload) {
				msg = "Invalid token payload"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by RequireAuth.
func CurrentIdentity(c *gin.Context) (*types.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*types.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	// Tolerate "bearer"/"Bearer" and a bare token without a scheme.
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}
