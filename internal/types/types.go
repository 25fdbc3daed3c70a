// Package types holds the request and response bodies of the HTTP API.
package types

import (
	"time"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/resilience"
)

// LoginRequest represents the request structure for the admin login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest requires the current password and a new one of at least 8 characters
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type CategoryMappingRequest struct {
	Category *string `json:"category"`
	IconName *string `json:"iconName"`
}

// AdminInfo is the public view of an admin account
type AdminInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	User AdminInfo `json:"user"`
}

// SessionResponse carries a null user when the request has no valid session
type SessionResponse struct {
	User *AdminInfo `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type VerifyCodeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type UnlockStatusResponse struct {
	Required bool `json:"required"`
	Unlocked bool `json:"unlocked"`
}

type InitAdminResponse struct {
	Message string    `json:"message"`
	User    AdminInfo `json:"user"`
}

type UploadResponse struct {
	Message         string           `json:"message"`
	Upload          *database.Upload `json:"upload"`
	ActivitiesCount int              `json:"activitiesCount"`
}

type UploadsResponse struct {
	Uploads []database.Upload `json:"uploads"`
}

type ActivitiesResponse struct {
	Activities []analysis.Activity `json:"activities"`
}

type CategoryMappingsResponse struct {
	Mappings []database.CategoryIconMapping `json:"mappings"`
}

type CategoryMappingResponse struct {
	Mapping *database.CategoryIconMapping `json:"mapping"`
}

type BroadcastsResponse struct {
	Broadcasts []database.Broadcast `json:"broadcasts"`
}

type BroadcastResponse struct {
	Success   bool                `json:"success"`
	Broadcast *database.Broadcast `json:"broadcast"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     resilience.HealthLevel              `json:"status"`
	Timestamp  time.Time                           `json:"timestamp"`
	Uptime     string                              `json:"uptime"`
	Revision   uint64                              `json:"revision"`
	Activities int                                 `json:"activities"`
	Services   map[string]resilience.ServiceHealth `json:"services"`
}
