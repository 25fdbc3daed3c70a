package main

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/auth"
	"github.com/ZanzyTHEbar/troupe-insights/internal/broadcast"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/ratelimit"
	"github.com/ZanzyTHEbar/troupe-insights/internal/resilience"
	"github.com/ZanzyTHEbar/troupe-insights/internal/types"
)

// handleHealth godoc
// @Summary Health check
// @Description Probes the database and Redis. Answers 503 when a critical dependency is down.
// @Tags system
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func (s *server) handleHealth(c *gin.Context) {
	s.health.CheckAll(c.Request.Context())
	report := s.health.Report()

	snap := s.dash.Snapshot()
	status := http.StatusOK
	if report.Status == resilience.LevelUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, types.HealthResponse{
		Status:     report.Status,
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Revision:   snap.Revision,
		Activities: snap.Dataset.Len(),
		Services:   report.Services,
	})
}

func verifyFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, types.VerifyCodeResponse{Success: false, Error: message})
}

// handleVerifyCode godoc
// @Summary Unlock the site with the shared code
// @Tags site
// @Accept json
// @Produce json
// @Param request body types.VerifyCodeRequest true "Code"
// @Success 200 {object} types.VerifyCodeResponse
// @Failure 400 {object} types.VerifyCodeResponse
// @Failure 401 {object} types.VerifyCodeResponse
// @Failure 429 {object} types.VerifyCodeResponse
// @Router /api/verify-otp [post]
func (s *server) handleVerifyCode(c *gin.Context) {
	result := s.limiter.Check(c, ratelimit.PolicyVerifyCode, ratelimit.ClientIPKey(c), s.limiter.Config().AttemptRate())
	if !result.Allowed {
		verifyFailure(c, http.StatusTooManyRequests, msgVerifyCodeLimited)
		return
	}

	var req types.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		verifyFailure(c, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}

	err := s.gate.Verify(req.Code)
	switch {
	case err == nil:
	case stderrors.Is(err, auth.ErrCodeNotConfigured):
		s.logger.Error("Sitewide code requested but SITEWIDE_CODE is not set")
		verifyFailure(c, http.StatusInternalServerError, "Server configuration error.")
		return
	case stderrors.Is(err, auth.ErrCodeFormat):
		verifyFailure(c, http.StatusBadRequest, "Invalid code format.")
		return
	default:
		s.logger.SecurityLogger("sitewide_code_rejected", c.ClientIP(), c.Request.UserAgent(), nil)
		verifyFailure(c, http.StatusUnauthorized, "Incorrect code.")
		return
	}

	auth.SetUnlockCookie(c)
	c.JSON(http.StatusOK, types.VerifyCodeResponse{Success: true})
}

// handleUnlockStatus godoc
// @Summary Whether this browser has unlocked the site
// @Description required is false when no sitewide code is configured
// @Tags site
// @Produce json
// @Success 200 {object} types.UnlockStatusResponse
// @Router /api/verify-otp [get]
func (s *server) handleUnlockStatus(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, types.UnlockStatusResponse{
		Required: s.gate.Configured(),
		Unlocked: auth.Unlocked(c),
	})
}

// handleListCategoryMappings godoc
// @Summary Category icon mappings
// @Description Seeds the default icons the first time it is called
// @Tags site
// @Produce json
// @Success 200 {object} types.CategoryMappingsResponse
// @Router /api/category-mappings [get]
func (s *server) handleListCategoryMappings(c *gin.Context) {
	mappings, err := s.icons.List(c.Request.Context())
	if err != nil {
		errors.Respond(c, errors.NewInternalError("Failed to fetch category mappings", err))
		return
	}
	c.JSON(http.StatusOK, types.CategoryMappingsResponse{Mappings: mappings})
}

// handleSetCategoryMapping godoc
// @Summary Set the icon of a category
// @Tags site
// @Accept json
// @Produce json
// @Param request body types.CategoryMappingRequest true "Mapping"
// @Success 200 {object} types.CategoryMappingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/category-mappings [post]
func (s *server) handleSetCategoryMapping(c *gin.Context) {
	var req types.CategoryMappingRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.Category == nil || req.IconName == nil {
		errors.Respond(c, errors.NewValidationError("Category and iconName are required"))
		return
	}

	mapping, err := s.icons.Set(c.Request.Context(), *req.Category, *req.IconName)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.CategoryMappingResponse{Mapping: mapping})
}

// handleActiveBroadcasts godoc
// @Summary Live broadcasts
// @Description Broadcasts that are active and inside their schedule, with a revision for change detection
// @Tags broadcasts
// @Produce json
// @Success 200 {object} broadcast.Active
// @Router /api/broadcasts/active [get]
func (s *server) handleActiveBroadcasts(c *gin.Context) {
	active, err := s.broadcasts.Active(c.Request.Context())
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, active)
}

// @Summary List every broadcast
// @Tags broadcasts
// @Produce json
// @Success 200 {object} types.BroadcastsResponse
// @Router /api/broadcasts [get]
func (s *server) handleListBroadcasts(c *gin.Context) {
	list, err := s.broadcasts.List(c.Request.Context())
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.BroadcastsResponse{Broadcasts: list})
}

// @Summary Create a broadcast
// @Tags broadcasts
// @Accept json
// @Produce json
// @Param request body broadcast.Input true "Broadcast"
// @Success 200 {object} types.BroadcastResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/broadcasts [post]
func (s *server) handleCreateBroadcast(c *gin.Context) {
	var in broadcast.Input
	if !bindJSON(c, &in, nil) {
		return
	}
	b, err := s.broadcasts.Create(c.Request.Context(), in)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.BroadcastResponse{Success: true, Broadcast: b})
}

// @Summary Update a broadcast
// @Description Only fields present in the body change. The version increases when displayed content changes.
// @Tags broadcasts
// @Accept json
// @Produce json
// @Param request body broadcast.Patch true "Patch"
// @Success 200 {object} types.BroadcastResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/broadcasts [put]
func (s *server) handleUpdateBroadcast(c *gin.Context) {
	var p broadcast.Patch
	if !bindJSON(c, &p, nil) {
		return
	}
	b, err := s.broadcasts.Update(c.Request.Context(), p)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.BroadcastResponse{Success: true, Broadcast: b})
}

// @Summary Delete a broadcast
// @Tags broadcasts
// @Produce json
// @Param id path int true "Broadcast ID"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/broadcasts/{id} [delete]
func (s *server) handleDeleteBroadcast(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errors.Respond(c, errors.NewValidationError("Valid broadcast ID is required"))
		return
	}
	if err := s.broadcasts.Delete(c.Request.Context(), id); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessResponse{Success: true, Message: "Broadcast deleted successfully"})
}
