package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aDevMister/my-assesment/pkg/logger"
	"github.com/aDevMister/my-assesment/pkg/middleware"
	"github.com/gin-gonic/gin"
)

const loginHTML = `<!doctype html>
<html>
  <head><meta charset="utf-8" /><title>Users admin: sign in</title></head>
  <body>
    <h1>Sign in</h1>
    %s
    <form method="post" action="/login">
      <textarea name="token" rows="4" cols="60" placeholder="Bearer token"></textarea>
      <button type="submit">Sign in</button>
    </form>
  </body>
</html>`

// Revoker blocks a token until it expires. The sign-out form uses it.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// RegisterLogin mounts a token sign-in page for browsers. A verified token is
// stored in the cookie AuthMiddleware reads. rev may be nil.
func RegisterLogin(r gin.IRoutes, ver middleware.Verifier, rev Revoker, secureCookie bool) {
	log := logger.Named("login")

	r.GET("/login", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(strings.Replace(loginHTML, "%s", "", 1)))
	})

	r.POST("/login", func(c *gin.Context) {
		raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(c.PostForm("token")), "Bearer "))
		if raw == "" {
			c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(strings.Replace(loginHTML, "%s", "<p>token is required</p>", 1)))
			return
		}
		if _, err := ver.Verify(c.Request.Context(), raw); err != nil {
			log.Warnf("rejected sign-in from %s: %v", c.ClientIP(), err)
			c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", []byte(strings.Replace(loginHTML, "%s", "<p>invalid token</p>", 1)))
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(middleware.TokenCookie, raw, 0, "/", "", secureCookie, true)
		c.Redirect(http.StatusSeeOther, "/")
	})

	r.POST("/logout", func(c *gin.Context) {
		if raw, err := c.Cookie(middleware.TokenCookie); err == nil && raw != "" && rev != nil {
			if ttl := remaining(c.Request.Context(), ver, raw); ttl > 0 {
				if err := rev.Revoke(c.Request.Context(), raw, ttl); err != nil {
					log.Errorf("failed to revoke token on sign-out: %v", err)
				}
			}
		}
		c.SetCookie(middleware.TokenCookie, "", -1, "/", "", secureCookie, true)
		c.Redirect(http.StatusSeeOther, "/login")
	})
}

// remaining is how long raw stays valid, or 0 when it does not verify or has
// no expiry.
func remaining(ctx context.Context, ver middleware.Verifier, raw string) time.Duration {
	tok, err := ver.Verify(ctx, raw)
	if err != nil {
		return 0
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := tok.Claims(&claims); err != nil || claims.Exp == 0 {
		return 0
	}
	return time.Until(time.Unix(claims.Exp, 0))
}
