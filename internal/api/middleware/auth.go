// Package middleware provides request middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/goseo/internal/auth"
)

// Context keys written by the auth middleware.
const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// UserID returns the authenticated user id, or "" outside an authed route.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// UserEmail returns the authenticated user's email address.
func UserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// RequireAuth validates the Bearer token and records the caller identity on
// the request context.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		authorize(c, jwtManager, token)
	}
}

// ReportAccess authenticates report downloads. Browsers cannot attach
// headers to a plain download link, so the token is also accepted as a
// ?token= query parameter.
func ReportAccess(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		authorize(c, jwtManager, token)
	}
}

func authorize(c *gin.Context, jwtManager *auth.JWTManager, token string) {
	claims, err := jwtManager.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(userIDKey, claims.Sub)
	c.Set(userEmailKey, claims.Email)
	c.Next()
}

// bearerToken extracts the token from the Authorization header, or "" when
// the header is absent or not a Bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}

	return strings.TrimSpace(token)
}
