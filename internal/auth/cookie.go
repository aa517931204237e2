package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "token"

// CookiePolicy is the one fixed attribute set for the session cookie.
// Attach and Clear must use identical attributes, otherwise browsers will
// not match the cookie on logout and a stale token stays behind.
type CookiePolicy struct {
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

func NewCookiePolicy(maxAgeSeconds int, secure bool, sameSite http.SameSite) CookiePolicy {
	// SameSite=None without Secure is rejected by modern clients.
	if sameSite == http.SameSiteNoneMode {
		secure = true
	}

	return CookiePolicy{
		MaxAge:   maxAgeSeconds,
		Secure:   secure,
		SameSite: sameSite,
	}
}

func (p CookiePolicy) Attach(ctx *gin.Context, token string) {
	p.set(ctx, token, p.MaxAge)
}

func (p CookiePolicy) Clear(ctx *gin.Context) {
	p.set(ctx, "", -1)
}

func (p CookiePolicy) set(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(p.SameSite)

	ctx.SetCookie(
		SessionCookieName,
		value,
		maxAge,
		"/",
		"",
		p.Secure,
		true, // HttpOnly: the token is never script-readable.
	)
}
