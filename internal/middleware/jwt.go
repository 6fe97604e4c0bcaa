package middleware

import (
	"context"
	"net/http"
	"strings"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the HttpOnly cookie that carries the token for browsers.
const SessionCookie = "session"

// Authenticator is satisfied by service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*service.Claims, error)
	Renew(ctx context.Context, c *service.Claims) (string, error)
}

// Auth resolves the caller from a Bearer token or the session cookie and
// stores user_id, user_name and session_id on the context. Tokens close to
// expiry are reissued through X-New-Token.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("session_id", claims.ID)

		if fresh, err := auth.Renew(c.Request.Context(), claims); err != nil {
			logger.Warn("auth.renew_failed", "uid", claims.UserID, "err", err)
		} else if fresh != "" {
			c.Header("X-New-Token", fresh)
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}
