package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"topjob-gateway/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the header that must echo the cookie value
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour
)

func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern: mutating
// requests must carry an X-CSRF-Token header matching the csrf_token
// cookie. Cross-origin attackers can make the browser send the cookie but
// cannot read its value to forge the header.
//
// Login is exempt: first-time visitors have no cookie yet, and the endpoint
// is covered by rate limiting instead.
func CSRFMiddleware() gin.HandlerFunc {
	csrfExemptPaths := map[string]bool{
		"/v1/session/login": true,
		"/v1/health":        true,
	}

	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, genErr := generateCSRFToken()
			if genErr != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}
			// SameSite=Lax: sent on top-level navigations, not on
			// cross-site subrequests. HttpOnly=false so the frontend can
			// read it back into the header.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, newToken, int(CSRFTokenExpiry.Seconds()), "/", "", true, false)
			csrfCookie = newToken
		}

		if csrfExemptPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		method := c.Request.Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}
		if headerToken != csrfCookie {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
