package middlewares

import (
	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

// RequireRole runs after RequireAuth and gates authoring routes.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c)

		if !ok || u.Role == "" {
			abortWith(c, apperr.New(apperr.KindUnauthenticated, "Missing identity context"))
			return
		}
		if u.Role != required {
			abortWith(c, apperr.New(apperr.KindForbidden, "Instructor role required"))
			return
		}
		c.Next()
	}
}
