package middleware

import (
	"net/http"
	"time"

	"topjob-gateway/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName identifies the client's session namespace. The value
	// is an opaque random key, not a credential; the credential itself lives
	// server-side in the store keyed by this value.
	SessionCookieName = "gateway_session"
	// SessionCookieExpiry outlives any credential TTL so the last-subject
	// slot survives credential expiry.
	SessionCookieExpiry = 30 * 24 * time.Hour
)

// SessionResolver hands out the session manager for a session key.
type SessionResolver interface {
	Manager(key string) domain.SessionManager
}

// SessionContext binds every request to its own session manager, keyed by
// the gateway session cookie. First-time clients get a fresh key, so an
// anonymous request can never inherit another client's session.
func SessionContext(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(SessionCookieName)
		// The key becomes a storage namespace, so reject anything a client
		// fabricated that is not one of our own issued UUIDs.
		if err != nil || !validSessionKey(key) {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, key, int(SessionCookieExpiry.Seconds()), "/", "", true, true)
		}

		c.Set(string(domain.KeySession), resolver.Manager(key))
		c.Next()
	}
}

// Sessions returns the request's session manager, or nil when SessionContext
// is not installed.
func Sessions(c *gin.Context) domain.SessionManager {
	value, _ := c.Get(string(domain.KeySession))
	manager, _ := value.(domain.SessionManager)
	return manager
}

func validSessionKey(key string) bool {
	_, err := uuid.Parse(key)
	return err == nil
}
