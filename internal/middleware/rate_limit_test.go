package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatwillyoucook/backend/internal/middleware"
)

func newTestLimiter(limit int) (*middleware.RateLimiter, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	limiter := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     limit,
		KeyPrefix: "rate_limit:test",
	})
	return limiter, mock
}

func limiterTestRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/limited", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestAllowUnderLimit(t *testing.T) {
	limiter, mock := newTestLimiter(5)
	mock.Regexp().ExpectIncr(`rate_limit:test:.+:\d+`).SetVal(3)
	mock.Regexp().ExpectExpire(`rate_limit:test:.+:\d+`, time.Minute).SetVal(true)

	allowed, remaining, reset, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
	assert.False(t, reset.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowOverLimit(t *testing.T) {
	limiter, mock := newTestLimiter(5)
	mock.Regexp().ExpectIncr(`rate_limit:test:.+:\d+`).SetVal(6)
	mock.Regexp().ExpectExpire(`rate_limit:test:.+:\d+`, time.Minute).SetVal(true)

	allowed, remaining, _, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	limiter, mock := newTestLimiter(1)
	mock.Regexp().ExpectIncr(`rate_limit:test:.+:\d+`).SetVal(2)
	mock.Regexp().ExpectExpire(`rate_limit:test:.+:\d+`, time.Minute).SetVal(true)

	r := limiterTestRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/limited", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddlewareSetsHeadersWhenAllowed(t *testing.T) {
	limiter, mock := newTestLimiter(10)
	mock.Regexp().ExpectIncr(`rate_limit:test:.+:\d+`).SetVal(1)
	mock.Regexp().ExpectExpire(`rate_limit:test:.+:\d+`, time.Minute).SetVal(true)

	r := limiterTestRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/limited", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestMiddlewareDegradesToPassThroughOnRedisError(t *testing.T) {
	limiter, mock := newTestLimiter(1)
	mock.Regexp().ExpectIncr(`rate_limit:test:.+:\d+`).SetErr(errors.New("redis down"))

	r := limiterTestRouter(limiter)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/limited", nil))

	// an unreachable Redis must never block traffic
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}
