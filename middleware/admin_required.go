// Package middleware holds the gin and net/http filters in front of the
// handlers: the admin session gate, request IDs and cross-origin protection.
// file: middleware/admin_required.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"church-site/logger"
	"church-site/models"
)

// Session keys written by the login handler.
const (
	SessionKeyLoggedIn = "admin_logged_in"
	SessionKeyAdminID  = "admin_id"
	SessionKeyUsername = "admin_username"
	SessionKeyVersion  = "admin_session_version"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

const identityKey = "church.identity"

// SessionVerifier reports the session version currently valid for an admin.
// It returns models.ErrInvalidCredentials when the admin is gone.
type SessionVerifier interface {
	SessionVersion(ctx context.Context, username string) (string, error)
}

// AdminRequired lets a request through only when the session carries the
// logged-in flag and, when v is set, a session version that still matches the
// admin's password. Everything else is redirected to the login page before
// any handler runs.
func AdminRequired(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		loggedIn, ok := session.Get(SessionKeyLoggedIn).(bool)

		logger.Debug.Printf("[AdminRequired] %s %s loggedIn=%v ok=%v", c.Request.Method, c.Request.URL.Path, loggedIn, ok)

		if !ok || !loggedIn {
			logger.Warn.Printf("[AdminRequired] Unauthenticated %s %s redirected to login", c.Request.Method, c.Request.URL.Path)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		id, _ := session.Get(SessionKeyAdminID).(int64)
		username, _ := session.Get(SessionKeyUsername).(string)
		version, _ := session.Get(SessionKeyVersion).(string)

		if v != nil {
			current, err := v.SessionVersion(c.Request.Context(), username)
			if err != nil && !errors.Is(err, models.ErrInvalidCredentials) {
				logger.Error.Printf("[AdminRequired] Session check failed for %q: %v", username, err)
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
			if err != nil || current != version {
				logger.Warn.Printf("[AdminRequired] Stale session for %q on %s %s, signing out", username, c.Request.Method, c.Request.URL.Path)
				session.Clear()
				_ = session.Save()
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
		}

		c.Set(identityKey, models.Identity{AdminID: id, Username: username, SessionVersion: version})
		c.Next()
	}
}

// CurrentIdentity returns the admin placed on the context by AdminRequired.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
