package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(max int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(max, window))
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/membership/plans", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	r := rateLimitedRouter(2, 100*time.Millisecond)

	for i := 0; i < 2; i++ {
		w := hit(t, r, http.MethodPost, "/api/auth/login")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := hit(t, r, http.MethodPost, "/api/auth/login")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "RATE_LIMIT_EXCEEDED", body.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// Each route carries its own budget; the exhausted login window does not
	// spill over into plan browsing.
	w = hit(t, r, http.MethodGet, "/api/membership/plans")
	require.Equal(t, http.StatusOK, w.Code)

	// And the window resets.
	time.Sleep(120 * time.Millisecond)
	w = hit(t, r, http.MethodPost, "/api/auth/login")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabledWhenZero(t *testing.T) {
	r := rateLimitedRouter(0, time.Minute)

	for i := 0; i < 5; i++ {
		w := hit(t, r, http.MethodPost, "/api/auth/login")
		require.Equal(t, http.StatusOK, w.Code)
	}
}
