package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// CookieName holds the admin session token
const CookieName = "admin_token"

const claimsKey = "admin_claims"

// SetSessionCookie stores token in the admin session cookie
func SetSessionCookie(c *gin.Context, token string, maxAgeSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAgeSeconds, "/", "", secure, true)
}

// ClearSessionCookie expires the admin session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// tokenFromRequest reads the session cookie, falling back to a Bearer header
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SessionFromRequest returns the verified claims of the request's session, if any
func (s *Service) SessionFromRequest(c *gin.Context) (*Claims, bool) {
	token := tokenFromRequest(c)
	if token == "" {
		return nil, false
	}
	claims, err := s.VerifyToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// OptionalAdmin attaches session claims when present and never rejects
func (s *Service) OptionalAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := s.SessionFromRequest(c); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests without a valid admin session
func (s *Service) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentAdmin(c)
		if !ok {
			claims, ok = s.SessionFromRequest(c)
		}
		if !ok {
			apperrors.Respond(c, apperrors.NewUnauthorizedError("Unauthorized"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentAdmin returns the claims set by OptionalAdmin or RequireAdmin
func CurrentAdmin(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// AdminOrIPKey keys rate limits by admin username, or by client IP for
// anonymous requests. Run OptionalAdmin first.
func AdminOrIPKey(c *gin.Context) string {
	if claims, ok := CurrentAdmin(c); ok {
		return "user:" + claims.Username
	}
	return "ip:" + c.ClientIP()
}
