package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/config"
)

// apiCSP locks the JSON API down; nothing it serves should ever be framed or run script.
const apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

// docsCSP lets the swagger UI load its bundled assets.
const docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// SecurityConfig holds security configuration
type SecurityConfig struct {
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxUploadBytes int64         `json:"max_upload_bytes"`
	EnableHSTS     bool          `json:"enable_hsts"`
	DocsPrefix     string        `json:"docs_prefix"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout: 30 * time.Second,
		MaxUploadBytes: 10 << 20,
		DocsPrefix:     "/swagger/",
	}
}

// FromConfig derives the security settings from the process configuration.
func FromConfig(cfg config.Config) SecurityConfig {
	sc := DefaultSecurityConfig()
	if len(cfg.AllowedOrigins) > 0 {
		sc.AllowedOrigins = cfg.AllowedOrigins
	}
	if cfg.RequestTimeout > 0 {
		sc.RequestTimeout = cfg.RequestTimeout
	}
	if cfg.MaxUploadBytes > 0 {
		sc.MaxUploadBytes = cfg.MaxUploadBytes
	}
	sc.EnableHSTS = cfg.IsProduction()
	return sc
}

// SecurityMiddleware bundles the HTTP hardening applied to every route
type SecurityMiddleware struct {
	config SecurityConfig
}

func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// CORS allows the configured dashboard origins with credentials, so the
// admin_token and sitewide_unlocked cookies travel on cross-origin calls.
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     sm.config.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

	if sm.config.EnableHSTS || c.Request.TLS != nil {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	if sm.config.DocsPrefix != "" && strings.HasPrefix(c.Request.URL.Path, sm.config.DocsPrefix) {
		c.Header("Content-Security-Policy", docsCSP)
	} else {
		c.Header("Content-Security-Policy", apiCSP)
	}

	c.Next()
}

var allowedContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// ValidateContentType rejects bodies the API cannot bind
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := strings.ToLower(c.GetHeader("Content-Type"))
	if contentType == "" {
		c.Next()
		return
	}

	for _, allowed := range allowedContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			c.Next()
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
		"error": "unsupported content type",
	})
}

// RequestTimeout bounds the request context; storage calls observe it.
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// LimitUploadSize caps the request body. Declared lengths over the cap are
// refused up front; the rest fail while the multipart form is read.
func (sm *SecurityMiddleware) LimitUploadSize(c *gin.Context) {
	limit := sm.config.MaxUploadBytes
	if limit <= 0 {
		c.Next()
		return
	}

	if c.Request.ContentLength > limit {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "upload exceeds maximum size",
		})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	c.Next()
}

// Handlers returns the global chain in the order it should be installed.
func (sm *SecurityMiddleware) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		sm.CORS(),
		sm.SecurityHeaders,
		sm.ValidateContentType,
		sm.RequestTimeout,
	}
}
