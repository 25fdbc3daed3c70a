package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *monitoring.Metrics) {
	t.Helper()
	config := DefaultConfig()
	config.CleanupInterval = time.Hour
	metrics := monitoring.NewMetrics()
	limiter := NewRateLimiter(&RedisClient{enabled: false}, config, metrics)
	t.Cleanup(limiter.Close)
	return limiter, metrics
}

func TestRateLimiterFallbackMode(t *testing.T) {
	limiter, metrics := newTestLimiter(t)
	ctx := context.Background()
	rateLimit := Rate{Limit: 5, Period: 10 * time.Minute}

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "user:admin", rateLimit)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "attempt %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
		assert.Equal(t, 4-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "user:admin", rateLimit)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "6th attempt should be blocked")
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, rateLimit.Every())

	assert.Equal(t, int64(6), metrics.GetRateLimitStats()["fallback_count"])
}

func TestRateLimiterBlockedAttemptsDoNotConsume(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	r := Rate{Limit: 2, Period: time.Minute}
	now := time.Now()

	assert.True(t, limiter.allowFallback("k", r, now).Allowed)
	assert.True(t, limiter.allowFallback("k", r, now).Allowed)
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.allowFallback("k", r, now).Allowed)
	}

	// one token is restored after Every() regardless of the blocked attempts
	later := now.Add(r.Every() + time.Millisecond)
	assert.True(t, limiter.allowFallback("k", r, later).Allowed)
	assert.False(t, limiter.allowFallback("k", r, later).Allowed)
}

func TestAttemptWindowIsFixed(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	r := limiter.Config().AttemptRate()
	require.True(t, r.Fixed)
	start := time.Now()

	for i := 0; i < 5; i++ {
		result := limiter.allowFallback("login:10.0.0.1", r, start)
		assert.True(t, result.Allowed, "attempt %d should be allowed", i+1)
		assert.Equal(t, 4-i, result.Remaining)
	}

	// nothing is restored while the window is open
	allowed := 0
	for m := 1; m < 10; m++ {
		at := start.Add(time.Duration(m) * time.Minute)
		result := limiter.allowFallback("login:10.0.0.1", r, at)
		if result.Allowed {
			allowed++
			continue
		}
		assert.Equal(t, start.Add(r.Period).Sub(at), result.RetryAfter)
	}
	assert.Zero(t, allowed)

	fresh := start.Add(r.Period)
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.allowFallback("login:10.0.0.1", r, fresh).Allowed)
	}
	assert.False(t, limiter.allowFallback("login:10.0.0.1", r, fresh).Allowed)
}

func TestAttemptWindowSurvivesSweep(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	r := Rate{Limit: 1, Period: 2 * limiter.config.IdleTTL, Fixed: true}
	start := time.Now()

	require.True(t, limiter.allowFallback("otp", r, start).Allowed)
	assert.Zero(t, limiter.sweep(start.Add(limiter.config.IdleTTL+time.Minute)))
	assert.False(t, limiter.allowFallback("otp", r, start.Add(limiter.config.IdleTTL+time.Minute)).Allowed)
	assert.Equal(t, 1, limiter.sweep(start.Add(3*limiter.config.IdleTTL)))
}

func TestResetClearsAttemptWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	r := limiter.Config().AttemptRate()

	for i := 0; i < r.Limit; i++ {
		_, _ = limiter.Allow(ctx, "login:1.2.3.4", r)
	}
	blocked, err := limiter.Allow(ctx, "login:1.2.3.4", r)
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	require.NoError(t, limiter.Reset(ctx, "login:1.2.3.4"))
	result, err := limiter.Allow(ctx, "login:1.2.3.4", r)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, r.Limit-1, result.Remaining)
}

func TestRateLimiterMultipleKeys(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	r := Rate{Limit: 1, Period: time.Minute}

	for _, key := range []string{"ip:10.0.0.1", "ip:10.0.0.2", "user:admin"} {
		result, err := limiter.Allow(ctx, key, r)
		require.NoError(t, err)
		assert.True(t, result.Allowed, key)
	}

	result, err := limiter.Allow(ctx, "ip:10.0.0.1", r)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestRateLimiterInvalidRate(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	_, err := limiter.Allow(context.Background(), "k", Rate{Limit: 0, Period: time.Minute})
	assert.Error(t, err)
}

func TestRateLimiterReset(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	r := Rate{Limit: 1, Period: time.Hour}

	_, _ = limiter.Allow(ctx, "otp:1.2.3.4", r)
	blocked, err := limiter.Allow(ctx, "otp:1.2.3.4", r)
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	require.NoError(t, limiter.Reset(ctx, "otp:1.2.3.4"))

	result, err := limiter.Allow(ctx, "otp:1.2.3.4", r)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestInvalidateAll(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	r := Rate{Limit: 1, Period: time.Hour}

	for _, key := range []string{"a", "b", "c"} {
		_, _ = limiter.Allow(ctx, key, r)
	}
	assert.Equal(t, 3, limiter.GetStats()["fallback_limiters"])

	require.NoError(t, limiter.InvalidateAll(ctx))
	assert.Equal(t, 0, limiter.GetStats()["fallback_limiters"])
}

func TestRateLimiterSweep(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	r := Rate{Limit: 3, Period: time.Minute}
	now := time.Now()

	limiter.allowFallback("old", r, now.Add(-2*limiter.config.IdleTTL))
	limiter.allowFallback("fresh", r, now)

	assert.Equal(t, 1, limiter.sweep(now))
	assert.Equal(t, 1, limiter.GetStats()["fallback_limiters"])
}

func TestRateLimiterConcurrency(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	r := Rate{Limit: 20, Period: time.Hour}

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := limiter.Allow(ctx, "shared", r)
			if err == nil && result.Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), allowed)
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(nil, DefaultConfig(), nil)
	limiter.Close()
	assert.NotPanics(t, limiter.Close)
}

func TestAttemptLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, metrics := newTestLimiter(t)
	limiter.config.AttemptLimit = 2

	r := gin.New()
	r.POST("/api/admin/login",
		limiter.AttemptLimitMiddleware(PolicyLogin, ClientIPKey, "Too many login attempts. Please try again later."),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", nil))
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "Too many login attempts")

	blocks := metrics.GetRateLimitStats()["policy_blocks"].(map[string]int64)
	assert.Equal(t, int64(1), blocks[PolicyLogin])
}

func TestIPRateLimitMiddlewareDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newTestLimiter(t)
	limiter.config.IPLimitPerMin = 0

	r := gin.New()
	r.Use(limiter.IPRateLimitMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
	assert.Equal(t, false, client.GetPoolStats()["enabled"])
}
