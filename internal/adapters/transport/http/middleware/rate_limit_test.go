package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oleksiikond/contactdeck/internal/adapters/transport/http/middleware"
)

func newLimitedRouter(limit, burst, size int, ttl time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewRateLimitPerIP(limit, burst, size, ttl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, addr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitPerIP_Basic(t *testing.T) {
	r := newLimitedRouter(1, 1, 100, time.Hour)

	require.Equal(t, http.StatusOK, hit(r, "1.2.3.4:12345"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "1.2.3.4:12345"))
}

func TestRateLimitPerIP_PerHostBuckets(t *testing.T) {
	r := newLimitedRouter(1, 1, 100, time.Hour)

	require.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1111"))
	require.Equal(t, http.StatusOK, hit(r, "10.0.0.2:2222"))
}

func TestRateLimitPerIP_IdleEviction(t *testing.T) {
	ttl := 10 * time.Millisecond
	r := newLimitedRouter(1, 1, 10, ttl)

	require.Equal(t, http.StatusOK, hit(r, "127.0.0.1:5555"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "127.0.0.1:5555"))

	// the sweeper runs on ttl ticks; give it two full cycles
	time.Sleep(3 * ttl)
	require.Equal(t, http.StatusOK, hit(r, "127.0.0.1:5555"))
}
