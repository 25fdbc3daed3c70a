// Package broadcast manages site-wide banner messages.
package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

const (
	LevelInfo     = "info"
	LevelWarn     = "warn"
	LevelCritical = "critical"
)

// Store is the persistence the service needs; *database.Repository satisfies it
type Store interface {
	ListBroadcasts(ctx context.Context) ([]database.Broadcast, error)
	ListActiveBroadcasts(ctx context.Context) ([]database.Broadcast, error)
	GetBroadcast(ctx context.Context, id int64) (*database.Broadcast, error)
	CreateBroadcast(ctx context.Context, b *database.Broadcast) error
	UpdateBroadcast(ctx context.Context, b *database.Broadcast) error
	DeleteBroadcast(ctx context.Context, id int64) error
}

// Input is a complete broadcast as submitted by an admin
type Input struct {
	Slug         string     `json:"slug" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	BodyMarkdown string     `json:"bodyMarkdown" validate:"required"`
	Level        string     `json:"level" validate:"oneof=info warn critical"`
	Active       bool       `json:"active"`
	StartsAt     *time.Time `json:"startsAt"`
	EndsAt       *time.Time `json:"endsAt"`
}

// Patch updates the fields that are present; ID is required.
// An explicit null for startsAt or endsAt removes that bound.
type Patch struct {
	ID           int64        `json:"id"`
	Slug         *string      `json:"slug"`
	Title        *string      `json:"title"`
	BodyMarkdown *string      `json:"bodyMarkdown"`
	Level        *string      `json:"level"`
	Active       *bool        `json:"active"`
	StartsAt     OptionalTime `json:"startsAt" swaggertype:"string" format:"date-time"`
	EndsAt       OptionalTime `json:"endsAt" swaggertype:"string" format:"date-time"`
}

// OptionalTime tells an absent JSON field apart from an explicit null.
// Set is false when the field was absent; Time is nil for null.
type OptionalTime struct {
	Set  bool
	Time *time.Time
}

// At sets the field to t.
func At(t time.Time) OptionalTime { return OptionalTime{Set: true, Time: &t} }

// Unset clears the field.
func Unset() OptionalTime { return OptionalTime{Set: true} }

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Time = &t
	return nil
}

func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if o.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Time)
}

// Public is the subset of a broadcast served to every visitor
type Public struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	BodyMarkdown string    `json:"bodyMarkdown"`
	Level        string    `json:"level"`
	Version      int       `json:"version"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Active is the live broadcast set. Revision is the newest UpdatedAt in
// unix milliseconds, 0 when nothing is live; clients refetch when it moves.
type Active struct {
	Revision   int64    `json:"revision"`
	Broadcasts []Public `json:"broadcasts"`
}

type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &Service{
		store:    store,
		validate: v,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Service) List(ctx context.Context) ([]database.Broadcast, error) {
	return s.store.ListBroadcasts(ctx)
}

// Create validates in and stores it at version 1
func (s *Service) Create(ctx context.Context, in Input) (*database.Broadcast, error) {
	in = normalize(in)
	if err := s.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	b := &database.Broadcast{
		Slug:         in.Slug,
		Title:        in.Title,
		BodyMarkdown: in.BodyMarkdown,
		Level:        in.Level,
		Active:       in.Active,
		Version:      1,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateBroadcast(ctx, b); err != nil {
		return nil, storeError(err)
	}
	return b, nil
}

// Update applies p to the stored broadcast. The version increases only when
// a displayed field changes.
func (s *Service) Update(ctx context.Context, p Patch) (*database.Broadcast, error) {
	if p.ID <= 0 {
		return nil, errors.NewValidationErrorWithMap("Validation failed", map[string]string{"id": "Valid broadcast ID is required"})
	}

	existing, err := s.store.GetBroadcast(ctx, p.ID)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NewNotFoundError("Broadcast")
	}
	if err != nil {
		return nil, err
	}

	merged := apply(*existing, p)
	in := normalize(Input{
		Slug:         merged.Slug,
		Title:        merged.Title,
		BodyMarkdown: merged.BodyMarkdown,
		Level:        merged.Level,
		Active:       merged.Active,
		StartsAt:     merged.StartsAt,
		EndsAt:       merged.EndsAt,
	})
	if err := s.check(in); err != nil {
		return nil, err
	}
	merged.Level = in.Level

	if SignificantChange(*existing, merged) {
		merged.Version = existing.Version + 1
	}
	merged.UpdatedAt = s.now()

	if err := s.store.UpdateBroadcast(ctx, &merged); err != nil {
		if stderrors.Is(err, database.ErrNotFound) {
			return nil, errors.NewNotFoundError("Broadcast")
		}
		return nil, storeError(err)
	}
	return &merged, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("Valid broadcast ID is required")
	}
	err := s.store.DeleteBroadcast(ctx, id)
	if stderrors.Is(err, database.ErrNotFound) {
		return errors.NewNotFoundError("Broadcast")
	}
	return err
}

// Active returns the broadcasts live right now, oldest update first
func (s *Service) Active(ctx context.Context) (*Active, error) {
	rows, err := s.store.ListActiveBroadcasts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &Active{Broadcasts: []Public{}}
	for i := len(rows) - 1; i >= 0; i-- {
		b := rows[i]
		if !IsLive(b, now) {
			continue
		}
		out.Broadcasts = append(out.Broadcasts, Public{
			ID:           b.ID,
			Slug:         b.Slug,
			Title:        b.Title,
			BodyMarkdown: b.BodyMarkdown,
			Level:        b.Level,
			Version:      b.Version,
			UpdatedAt:    b.UpdatedAt,
		})
		out.Revision = max(out.Revision, b.UpdatedAt.UnixMilli())
	}
	return out, nil
}

// IsLive reports whether b is active and now falls inside its schedule.
// Both bounds are inclusive and either may be unset.
func IsLive(b database.Broadcast, now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && now.After(*b.EndsAt) {
		return false
	}
	return true
}

// SignificantChange reports whether any displayed field differs
func SignificantChange(old, updated database.Broadcast) bool {
	return old.Title != updated.Title ||
		old.BodyMarkdown != updated.BodyMarkdown ||
		old.Level != updated.Level ||
		!sameTime(old.StartsAt, updated.StartsAt) ||
		!sameTime(old.EndsAt, updated.EndsAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func apply(b database.Broadcast, p Patch) database.Broadcast {
	if p.Slug != nil {
		b.Slug = *p.Slug
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.BodyMarkdown != nil {
		b.BodyMarkdown = *p.BodyMarkdown
	}
	if p.Level != nil {
		b.Level = *p.Level
	}
	if p.Active != nil {
		b.Active = *p.Active
	}
	if p.StartsAt.Set {
		b.StartsAt = p.StartsAt.Time
	}
	if p.EndsAt.Set {
		b.EndsAt = p.EndsAt.Time
	}
	return b
}

func normalize(in Input) Input {
	in.Slug = strings.TrimSpace(in.Slug)
	in.Title = strings.TrimSpace(in.Title)
	in.Level = strings.TrimSpace(in.Level)
	if in.Level == "" {
		in.Level = LevelInfo
	}
	if in.StartsAt != nil {
		t := in.StartsAt.UTC().Truncate(time.Millisecond)
		in.StartsAt = &t
	}
	if in.EndsAt != nil {
		t := in.EndsAt.UTC().Truncate(time.Millisecond)
		in.EndsAt = &t
	}
	return in
}

func (s *Service) check(in Input) error {
	issues := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return fmt.Errorf("validate broadcast: %w", err)
		}
		for _, fe := range fieldErrs {
			issues[fe.Field()] = describe(fe)
		}
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		issues["endsAt"] = "must not be before startsAt"
	}
	if len(issues) > 0 {
		return errors.NewValidationErrorWithMap("Validation failed", issues)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "slug":
		return "Slug is required"
	case "title":
		return "Title is required"
	case "bodyMarkdown":
		return "Content is required"
	case "level":
		return "must be one of info, warn, critical"
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

func storeError(err error) error {
	if database.IsUniqueViolation(err) {
		return errors.NewConflictError("A broadcast with this slug already exists", err)
	}
	return err
}
