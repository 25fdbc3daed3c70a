package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 1.5,
	}
}

func TestRetry(t *testing.T) {
	errTransient := apperrors.NewNetworkError("connection refused", errors.New("dial tcp"))
	errFatal := apperrors.NewValidationError("bad input")

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int32
		wantErr   error
	}{
		{name: "succeeds first time", failures: 0, err: errTransient, attempts: 3, wantCalls: 1},
		{name: "recovers after transient failures", failures: 2, err: errTransient, attempts: 3, wantCalls: 3},
		{name: "gives up after max attempts", failures: 10, err: errTransient, attempts: 3, wantCalls: 3, wantErr: errTransient},
		{name: "stops on permanent error", failures: 10, err: errFatal, attempts: 5, wantCalls: 1, wantErr: errFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			err := Retry(context.Background(), "test", fastRetry(tt.attempts), func(context.Context) error {
				n := atomic.AddInt32(&calls, 1)
				if int(n) <= tt.failures {
					return tt.err
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := StartupRetryConfig()
	err := Retry(ctx, "cancelled", cfg, func(context.Context) error {
		return errors.New("still down")
	})
	require.Error(t, err)
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("redis", CircuitBreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, StateOpen, cb.State())

	var cbErr *CircuitBreakerError
	require.ErrorAs(t, cb.Call(ok), &cbErr)
	assert.Equal(t, "circuit breaker redis is open", cbErr.Error())

	now = now.Add(time.Minute)
	assert.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())

	// a failed trial call reopens immediately
	cb.RecordFailure()
	cb.RecordFailure()
	now = now.Add(2 * time.Minute)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "closed", cb.GetStats()["state"])
}

func TestHealthManager(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		redisErr error
		want     HealthLevel
	}{
		{name: "all healthy", want: LevelHealthy},
		{name: "optional dependency down", redisErr: errors.New("redis down"), want: LevelDegraded},
		{name: "critical dependency down", dbErr: errors.New("db down"), want: LevelUnhealthy},
		{name: "both down", dbErr: errors.New("db down"), redisErr: errors.New("redis down"), want: LevelUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := NewHealthManager(time.Second)
			hm.RegisterService("database", true, func(context.Context) error { return tt.dbErr })
			hm.RegisterService("redis", false, func(context.Context) error { return tt.redisErr })

			report := hm.CheckAll(context.Background())
			assert.Equal(t, tt.want, report.Status)
			require.Len(t, report.Services, 2)
			assert.Equal(t, tt.dbErr == nil, report.Services["database"].Healthy)
			assert.Equal(t, tt.redisErr == nil, hm.IsServiceAvailable("redis"))
			if tt.dbErr != nil {
				assert.Equal(t, 1, report.Services["database"].ConsecutiveFailures)
				assert.Equal(t, tt.dbErr.Error(), report.Services["database"].StatusMessage)
			}
		})
	}
}

func TestHealthManager_Timeout(t *testing.T) {
	hm := NewHealthManager(10 * time.Millisecond)
	hm.RegisterService("slow", true, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := hm.CheckAll(context.Background())
	assert.Equal(t, LevelUnhealthy, report.Status)
	assert.Contains(t, report.Services["slow"].StatusMessage, "deadline exceeded")
}
