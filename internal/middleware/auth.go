package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
	CtxRoleKey   = "userRole"
)

// RequireAuth enforces session authentication via the auth cookie.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.CookieName)
		if err != nil || raw == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			// Normalise all validation failures to 401
			response.Error(c, errors.ErrInvalidSession)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects requests whose session does not carry the ADMIN role.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxRoleKey)
		if !ok || role != models.RoleAdmin {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
