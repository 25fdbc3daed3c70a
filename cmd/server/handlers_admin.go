package main

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/auth"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/ratelimit"
	"github.com/ZanzyTHEbar/troupe-insights/internal/types"
)

var loginMessages = fieldMessages{
	"Username.required": "Username is required",
	"Password.required": "Password is required",
}

var changePasswordMessages = fieldMessages{
	"CurrentPassword.required": "Current password is required",
	"NewPassword.required":     "New password must be at least 8 characters",
	"NewPassword.min":          "New password must be at least 8 characters",
}

func adminInfo(u *database.AdminUser) types.AdminInfo {
	return types.AdminInfo{ID: u.ID, Username: u.Username}
}

// handleLogin godoc
// @Summary Admin login
// @Description Checks credentials and sets the admin_token session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "Credentials"
// @Success 200 {object} types.LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/admin/login [post]
func (s *server) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req, loginMessages) {
		return
	}

	user, token, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		success := false
		s.metrics.RecordLogin(success)
		s.logger.AuthLogger("login", req.Username, c.ClientIP(), success)
		if stderrors.Is(err, auth.ErrInvalidCredentials) {
			errors.Respond(c, errors.NewUnauthorizedError("Invalid username or password"))
			return
		}
		errors.Respond(c, errors.NewInternalError("Authentication failed", err))
		return
	}

	s.metrics.RecordLogin(true)
	s.logger.AuthLogger("login", user.Username, c.ClientIP(), true)
	s.limiter.ResetKey(c, ratelimit.PolicyLogin, ratelimit.ClientIPKey(c))

	auth.SetSessionCookie(c, token, int(s.auth.SessionTTL().Seconds()), s.cfg.IsProduction())
	c.JSON(http.StatusOK, types.LoginResponse{User: adminInfo(user)})
}

// handleLogout godoc
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} types.MessageResponse
// @Router /api/admin/logout [post]
func (s *server) handleLogout(c *gin.Context) {
	if claims, ok := s.auth.SessionFromRequest(c); ok {
		s.logger.AuthLogger("logout", claims.Username, c.ClientIP(), true)
	}
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Logged out successfully"})
}

// handleSession godoc
// @Summary Current admin session
// @Description Returns the signed-in admin, or a null user
// @Tags admin
// @Produce json
// @Success 200 {object} types.SessionResponse
// @Router /api/admin/session [get]
func (s *server) handleSession(c *gin.Context) {
	claims, ok := s.auth.SessionFromRequest(c)
	if !ok {
		c.JSON(http.StatusOK, types.SessionResponse{})
		return
	}
	c.JSON(http.StatusOK, types.SessionResponse{
		User: &types.AdminInfo{ID: claims.UserID, Username: claims.Username},
	})
}

// handleChangePassword godoc
// @Summary Change the admin password
// @Description Verifies the current password, stores the new one and ends the session
// @Tags admin
// @Accept json
// @Produce json
// @Param request body types.ChangePasswordRequest true "Passwords"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/admin/change-password [post]
func (s *server) handleChangePassword(c *gin.Context) {
	claims, _ := auth.CurrentAdmin(c)

	var req types.ChangePasswordRequest
	if !bindJSON(c, &req, changePasswordMessages) {
		return
	}

	err := s.auth.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
	case stderrors.Is(err, auth.ErrIncorrectPassword):
		s.logger.AuthLogger("change_password", claims.Username, c.ClientIP(), false)
		errors.Respond(c, errors.NewValidationError("Current password is incorrect"))
		return
	case stderrors.Is(err, database.ErrNotFound):
		errors.Respond(c, errors.NewNotFoundError("User"))
		return
	default:
		errors.Respond(c, errors.NewInternalError("Failed to change password", err))
		return
	}

	s.logger.AuthLogger("change_password", claims.Username, c.ClientIP(), true)
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, types.SuccessResponse{Success: true})
}

// handleInitAdmin godoc
// @Summary Create the default admin account
// @Description Creates "admin" from ADMIN_DEFAULT_PASSWORD. Disabled in production.
// @Tags admin
// @Produce json
// @Success 200 {object} types.InitAdminResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/admin/init [post]
func (s *server) handleInitAdmin(c *gin.Context) {
	if s.cfg.IsProduction() {
		errors.Respond(c, errors.NewForbiddenError("Not available in production"))
		return
	}

	user, _, err := s.auth.EnsureAdmin(c.Request.Context(), s.cfg.AdminDefaultPassword)
	if err != nil {
		errors.Respond(c, errors.NewInternalError("Failed to initialize admin user", err))
		return
	}

	c.JSON(http.StatusOK, types.InitAdminResponse{
		Message: "Admin user initialized",
		User:    adminInfo(user),
	})
}

// handleMetrics godoc
// @Summary Service counters
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/metrics [get]
func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":     s.metrics.GetStats(),
		"rate_limit":  gin.H{"counters": s.metrics.GetRateLimitStats(), "limiter": s.limiter.GetStats()},
		"cache":       s.dash.GetCacheStats(),
		"compression": s.compressor.GetStats(),
		"database":    s.db.GetPoolStats(),
	})
}
