package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/arkodev/learnhub/internal/auth"
	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserResolver interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserResolver
}

func NewAuthMiddleware(jwt TokenVerifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// RequireAuth resolves the session cookie to a live user record. The steps
// are strictly linear: extract, verify, resolve, attach. Any failure ends
// the request; the client has to authenticate again.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.SessionCookieName)
		if err != nil || raw == "" {
			abortWith(c, apperr.New(apperr.KindUnauthenticated, "User not authenticated"))
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			abortWith(c, apperr.Wrap(apperr.KindUnauthenticated, "Invalid or expired session", err))
			return
		}

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// The token only proves the claim was once valid; the account may
		// have been removed since issuance.
		u, err := m.users.GetByID(cctx, claims.Subject)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				abortWith(c, apperr.Wrap(apperr.KindNotFound, "User not found", err))
				return
			}

			abortWith(c, apperr.Wrap(apperr.KindInternal, "Authentication failed", err))
			return
		}

		c.Set(ctxUserKey, u)

		c.Next()
	}
}

// abortWith ends the request with the status apperr assigns to the error's
// kind, keeping middlewares on the same status mapping as the handlers.
func abortWith(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(apperr.StatusOf(err), gin.H{
		"success": false,
		"message": err.Message,
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	u, ok := UserFromContext(c)
	if !ok {
		return "", false
	}
	return u.ID, true
}
