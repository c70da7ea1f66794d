package middleware

import (
	"net/http"

	"sheetchat/domain/core"
	"sheetchat/internal"
	"sheetchat/internal/chat"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName carries the browser's session id
	CookieName = "sheetchat_session"
	sessionKey = "session"
)

// EnsureSession attaches the caller's session to the request, creating one
// (and setting the cookie) when the cookie is missing, malformed or expired.
func EnsureSession(manager *chat.Manager, secure bool) gin.HandlerFunc {
	logger := internal.DefaultLogger.With("EnsureSession")
	return func(c *gin.Context) {
		var id core.ID
		if raw, err := c.Cookie(CookieName); err == nil {
			if parsed, err := core.ParseID(raw); err == nil {
				id = parsed
			} else {
				logger.Debug("ignoring malformed session cookie")
			}
		}

		session, created := manager.GetOrCreate(id)
		if created || session.ID() != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, session.ID().String(), 0, "/", "", secure, true)
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// Session returns the session attached by EnsureSession
func Session(c *gin.Context) *chat.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*chat.Session); ok {
			return s
		}
	}
	return nil
}

// ClearSession expires the session cookie
func ClearSession(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
