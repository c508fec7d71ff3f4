package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCookieManagerSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	m := NewCookieManager("", false, 7*24*time.Hour)
	m.Set(c, "session-token")

	header := w.Header().Get("Set-Cookie")
	require.Contains(t, header, CookieName+"=session-token")
	require.Contains(t, header, "HttpOnly")
	require.Contains(t, header, "Max-Age=604800")
	require.Contains(t, header, "SameSite=Lax")
}

func TestCookieManagerClear(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	m := NewCookieManager("", false, time.Hour)
	m.Clear(c)

	header := w.Header().Get("Set-Cookie")
	require.Contains(t, header, CookieName+"=")
	require.Contains(t, header, "Max-Age=0")
}
