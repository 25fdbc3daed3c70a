package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		category ErrorCategory
		status   int
		message  string
	}{
		{
			name:     "validation",
			err:      NewValidationError("bad csv", "row 3"),
			category: CategoryValidation,
			status:   http.StatusBadRequest,
			message:  "[VALIDATION_ERROR] bad csv",
		},
		{
			name:     "unauthorized",
			err:      NewUnauthorizedError("Invalid credentials"),
			category: CategoryUnauthorized,
			status:   http.StatusUnauthorized,
			message:  "[UNAUTHORIZED] Invalid credentials",
		},
		{
			name:     "forbidden",
			err:      NewForbiddenError("Not available in production"),
			category: CategoryForbidden,
			status:   http.StatusForbidden,
			message:  "[FORBIDDEN] Not available in production",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("Upload"),
			category: CategoryNotFound,
			status:   http.StatusNotFound,
			message:  "[NOT_FOUND] Upload not found",
		},
		{
			name:     "conflict",
			err:      NewConflictError("Slug already exists", nil),
			category: CategoryConflict,
			status:   http.StatusConflict,
			message:  "[CONFLICT] Slug already exists",
		},
		{
			name:     "rate limit",
			err:      NewRateLimitError("Too many login attempts", 90*time.Second),
			category: CategoryRateLimit,
			status:   http.StatusTooManyRequests,
			message:  "[RATE_LIMIT_EXCEEDED] Too many login attempts",
		},
		{
			name:     "internal",
			err:      NewInternalError("db exploded", fmt.Errorf("boom")),
			category: CategoryInternal,
			status:   http.StatusInternalServerError,
			message:  "[INTERNAL_ERROR] Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
	}{
		{name: "keeps app errors", err: NewUnauthorizedError("nope"), category: CategoryUnauthorized},
		{name: "unwraps wrapped app errors", err: fmt.Errorf("login: %w", NewUnauthorizedError("nope")), category: CategoryUnauthorized},
		{name: "storage not found", err: fmt.Errorf("get upload: %w", ErrNotFound), category: CategoryNotFound},
		{name: "cancelled", err: context.Canceled, category: CategoryTimeout},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), category: CategoryTimeout},
		{name: "connection refused", err: fmt.Errorf("dial tcp: connection refused"), category: CategoryNetwork},
		{name: "anything else", err: fmt.Errorf("weird"), category: CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, ToAppError(tt.err).Category)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewInternalError("write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, NewNotFoundError("Broadcast"), ErrNotFound)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewNetworkError("down", nil)))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
	assert.False(t, IsRetryableError(NewValidationError("bad")))
	assert.False(t, IsRetryableError(NewRateLimitError("slow down", time.Minute)))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/missing", func(c *gin.Context) {
		Respond(c, NewNotFoundError("Upload"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["category"])
	assert.Equal(t, float64(http.StatusNotFound), body["http_status"])
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewValidationError("bad input"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"validation"`)
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"internal"`)
}
