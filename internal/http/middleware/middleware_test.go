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

func newLimitedEcho(t *testing.T, rps int, rdb *redis.Client) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Use(RateLimitMiddleware(RateLimitConfig{
		Redis:          rdb,
		RPS:            rps,
		Window:         time.Minute,
		RetryAfterHint: true,
	}))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newLimitedEcho(t, 2, rdb)

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)

	rec := hit(e, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// separate budget per client
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2").Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	e := newLimitedEcho(t, 1, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}

func TestRequestMetrics(t *testing.T) {
	e := echo.New()
	e.Use(RequestMetrics())
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
