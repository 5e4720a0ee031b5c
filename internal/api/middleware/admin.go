package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin restricts a route to the configured admin emails. It must run
// after RequireAuth so the caller email is on the context.
func RequireAdmin(adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(UserEmail(c), adminEmails) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

func isAdmin(email string, adminEmails []string) bool {
	if email == "" {
		return false
	}

	for _, admin := range adminEmails {
		if strings.EqualFold(email, admin) {
			return true
		}
	}

	return false
}
