package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho(cfg RateLimitConfig) *echo.Echo {
	e := echo.New()
	e.Use(RateLimitMiddleware(cfg))
	e.GET("/customers", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func hit(e *echo.Echo, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	e := newEcho(RateLimitConfig{RPS: 1})
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.1").Code)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// a long window keeps the test inside one slot
	e := newEcho(RateLimitConfig{Redis: rdb, RPS: 2, Window: time.Hour, RetryAfterHint: true, Skip: []string{"/healthz"}})

	assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.1").Code)

	rec := hit(e, "/customers", "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limited"}`, rec.Body.String())

	// other clients and skipped routes are unaffected
	assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.2").Code)
	assert.Equal(t, http.StatusOK, hit(e, "/healthz", "10.0.0.1").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := newEcho(RateLimitConfig{Redis: rdb, RPS: 1})
	assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "/customers", "10.0.0.1").Code)
}
