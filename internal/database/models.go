package database

import (
	"time"

	"github.com/google/uuid"
)

// Upload is one imported activity file
type Upload struct {
	ID              string    `json:"id" db:"id"`
	FileName        string    `json:"fileName" db:"file_name"`
	Description     string    `json:"description,omitempty" db:"description"`
	TotalActivities int       `json:"totalActivities" db:"total_activities"`
	UploadedAt      time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// AdminUser is an operator allowed to upload data and manage site settings
type AdminUser struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type CategoryIconMapping struct {
	ID        string    `json:"id" db:"id"`
	Category  string    `json:"category" db:"category"`
	IconName  string    `json:"iconName" db:"icon_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Broadcast is a site-wide banner shown between StartsAt and EndsAt while Active
type Broadcast struct {
	ID           int64      `json:"id" db:"id"`
	Slug         string     `json:"slug" db:"slug"`
	Title        string     `json:"title" db:"title"`
	BodyMarkdown string     `json:"bodyMarkdown" db:"body_markdown"`
	Level        string     `json:"level" db:"level"`
	Active       bool       `json:"active" db:"active"`
	Version      int        `json:"version" db:"version"`
	StartsAt     *time.Time `json:"startsAt" db:"starts_at"`
	EndsAt       *time.Time `json:"endsAt" db:"ends_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewUpload creates upload metadata with a generated ID
func NewUpload(fileName, description string, total int) *Upload {
	return &Upload{
		ID:              uuid.New().String(),
		FileName:        fileName,
		Description:     description,
		TotalActivities: total,
		UploadedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewAdminUser creates an admin with a generated ID; hash must already be bcrypt output
func NewAdminUser(username, passwordHash string) *AdminUser {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &AdminUser{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
