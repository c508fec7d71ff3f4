package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth_token"

// CookieManager writes and clears the HTTP-only session cookie. Logout only
// clears the client-held copy; the token itself stays valid until expiry.
type CookieManager struct {
	domain string
	secure bool
	ttl    time.Duration
}

// NewCookieManager builds a manager; secure should be true in production so
// the cookie is only sent over TLS.
func NewCookieManager(domain string, secure bool, ttl time.Duration) *CookieManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &CookieManager{domain: domain, secure: secure, ttl: ttl}
}

// Set attaches the session cookie to the response.
func (m *CookieManager) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", m.domain, m.secure, true)
}

// Clear expires the session cookie immediately. A negative max-age renders
// as Max-Age=0 on the wire.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", m.domain, m.secure, true)
}
