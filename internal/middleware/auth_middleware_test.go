package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/models"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *iauth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "middleware-secret"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/private", RequireAuth(tokens), func(c *gin.Context) {
		id := c.GetUint(CtxUserIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	r.GET("/admin", RequireAuth(tokens), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, tokens
}

func TestRequireAuthMissingCookie(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: iauth.CookieName, Value: "garbage"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	r, tokens := newAuthTestRouter(t)

	token, err := tokens.Sign(7, models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: iauth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID uint `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, uint(7), body.UserID)
}

func TestRequireAdmin(t *testing.T) {
	r, tokens := newAuthTestRouter(t)

	memberToken, err := tokens.Sign(1, models.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.Sign(2, models.RoleAdmin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: iauth.CookieName, Value: memberToken})
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: iauth.CookieName, Value: adminToken})
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
