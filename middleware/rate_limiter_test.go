package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func limitedRouter(t *testing.T, proxies []string) func(xff string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, TrustProxies(r, proxies))
	r.Use(RateLimitMiddleware(2, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	return func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil) // peer 192.0.2.1
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
}

func TestRateLimitPerIPBehindTrustedProxy(t *testing.T) {
	call := limitedRouter(t, []string{"192.0.2.1"})

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	call := limitedRouter(t, nil)

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.3"))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(10, func() time.Time { return now })

	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")
	assert.Equal(t, 2, store.size())

	now = now.Add(5 * time.Minute)
	store.getLimiter("10.0.0.2")

	now = now.Add(limiterIdleTTL - time.Minute)
	store.getLimiter("10.0.0.3")
	assert.Equal(t, 2, store.size())

	now = now.Add(limiterIdleTTL + time.Minute)
	store.getLimiter("10.0.0.3")
	assert.Equal(t, 1, store.size())
}
