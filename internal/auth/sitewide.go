package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/gin-gonic/gin"
)

const (
	UnlockCookieName = "sitewide_unlocked"
	unlockCookie     = UnlockCookieName + "=true; Path=/; Max-Age=86400; HttpOnly; Secure; SameSite=Strict"
)

var (
	ErrCodeNotConfigured = errors.New("sitewide code is not configured")
	ErrCodeFormat        = errors.New("invalid code format")
	ErrCodeIncorrect     = errors.New("incorrect code")
)

// SitewideGate checks the shared access code that unlocks the dashboard
type SitewideGate struct {
	code []byte
}

func NewSitewideGate(code string) *SitewideGate {
	return &SitewideGate{code: []byte(code)}
}

// Configured reports whether a code is set
func (g *SitewideGate) Configured() bool {
	return len(g.code) > 0
}

// Verify compares candidate with the configured code in constant time.
// Length mismatches are reported as a format error before comparing.
func (g *SitewideGate) Verify(candidate string) error {
	if !g.Configured() {
		return ErrCodeNotConfigured
	}
	if len(candidate) != len(g.code) {
		return ErrCodeFormat
	}
	if subtle.ConstantTimeCompare([]byte(candidate), g.code) != 1 {
		return ErrCodeIncorrect
	}
	return nil
}

// SetUnlockCookie marks the browser as unlocked for one day
func SetUnlockCookie(c *gin.Context) {
	c.Writer.Header().Add("Set-Cookie", unlockCookie)
}

// Unlocked reports whether the request carries the unlock cookie
func Unlocked(c *gin.Context) bool {
	v, err := c.Cookie(UnlockCookieName)
	return err == nil && v == "true"
}
