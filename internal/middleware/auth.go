package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkchq/projectboard/internal/constants"
	apierrors "github.com/nkchq/projectboard/internal/errors"
	"github.com/nkchq/projectboard/internal/policy"
	"github.com/nkchq/projectboard/internal/session"
)

// SetSessionCookie writes the credential cookie: http-only, SameSite=Lax,
// path "/", secure when the server runs in release mode.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie removes the credential cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", secure, true)
}

// RequireAuth verifies the session cookie and stores the identity in the
// context. A request carrying a still-valid credential gets it re-issued
// with a renewed expiry, so the session window slides with activity. An
// absent or invalid credential is answered with 401 and the login location.
func RequireAuth(mgr *session.Manager, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.SessionCookieName)
		if err != nil || token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		identity, err := mgr.Verify(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		refreshed, err := mgr.Issue(*identity)
		if err == nil {
			SetSessionCookie(c, refreshed, int(mgr.TTL().Seconds()), secure)
		}

		c.Set(constants.ContextKeyIdentity, *identity)
		c.Next()
	}
}

// CurrentIdentity retrieves the verified identity from the context.
func CurrentIdentity(c *gin.Context) (session.Identity, bool) {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok
}

// CurrentActor converts the verified identity into a policy actor.
func CurrentActor(c *gin.Context) (policy.Actor, bool) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return policy.Actor{}, false
	}
	return policy.Actor{
		UserID:   identity.UserID,
		Username: identity.Username,
		Tier:     policy.TierFor(identity.Username, identity.Role),
	}, true
}
