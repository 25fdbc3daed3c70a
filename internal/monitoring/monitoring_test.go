package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.RecordUpload(12, true)
	m.RecordUpload(0, false)
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)
	m.IncrementRateLimitBlock("login")
	m.IncrementRateLimitBlock("login")
	m.IncrementSnapshotReload()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, 50.0, stats["error_rate_percent"])
	assert.Equal(t, 50.0, stats["cache_hit_rate_percent"])
	assert.Equal(t, int64(1), stats["uploads"])
	assert.Equal(t, int64(1), stats["upload_failures"])
	assert.Equal(t, int64(12), stats["activities_imported"])
	assert.Equal(t, int64(1), stats["login_successes"])
	assert.Equal(t, int64(2), stats["login_failures"])
	assert.Equal(t, int64(1), stats["snapshot_reloads"])

	rl := m.GetRateLimitStats()
	assert.Equal(t, map[string]int64{"login": 2}, rl["policy_blocks"])

	m.Reset()
	assert.Equal(t, int64(0), m.GetStats()["total_requests"])
	assert.Empty(t, m.GetRateLimitStats()["policy_blocks"])
}

func TestMetrics_Percentiles(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 100*time.Millisecond, m.GetPercentileResponseTime(100))
}

func TestMetrics_ResponseSampleWindow(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < maxResponseSamples+10; i++ {
		m.RecordResponseTime(time.Millisecond)
	}
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()
	assert.Len(t, m.ResponseTimes, maxResponseSamples)
}

func TestMonitoringMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, slog.LevelDebug)
	metrics := NewMetrics()

	r := gin.New()
	r.Use(RequestIDMiddleware(), MonitoringMiddleware(metrics, logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/ok", "/fail"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	}

	assert.Equal(t, int64(2), metrics.RequestCount)
	assert.Equal(t, int64(1), metrics.ErrorCount)
	assert.Equal(t, map[int]int64{200: 1, 500: 1}, metrics.GetStatusCodeDistribution())
	assert.Contains(t, buf.String(), `"msg":"API Error"`)
	assert.Contains(t, buf.String(), `"timestamp"`)
}

func TestRequestIDMiddleware_ReusesClientID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestSecurityMonitoringMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		userAgent string
		wantType  string
	}{
		{"clean request", "/api/activities?latest=true", "Mozilla/5.0", ""},
		{"sql injection", "/api/activities?latest=1%20UNION%20SELECT%201", "Mozilla/5.0", "potential_sql_injection"},
		{"scanner agent", "/api/activities", "sqlmap/1.7", "suspicious_user_agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(SecurityMonitoringMiddleware(NewLoggerTo(&buf, slog.LevelInfo), 1024))
			r.GET("/api/activities", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("User-Agent", tt.userAgent)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			if tt.wantType == "" {
				assert.Empty(t, buf.String())
				return
			}
			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantType, entry["type"])
		})
	}
}

func TestAuthLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, slog.LevelInfo)

	logger.AuthLogger("login", "admin", "10.0.0.1", false)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, false, entry["success"])
}
