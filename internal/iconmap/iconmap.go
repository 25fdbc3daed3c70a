// Package iconmap maps activity categories to the icon the dashboard shows for them.
package iconmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// initializedKey is the app_config flag set once defaults have been seeded
const initializedKey = "categoryMappingsInitialized"

const maxFieldLength = 100

// Default is one built-in category/icon pair
type Default struct {
	Category string
	IconName string
}

// Defaults are seeded the first time mappings are listed
var Defaults = []Default{
	{"Food", "UtensilsCrossed"},
	{"Entertainment", "Music"},
	{"Recreation", "Zap"},
	{"Outdoors", "Trees"},
	{"Wellness", "Heart"},
	{"Dining", "ChefHat"},
	{"Gaming", "Gamepad2"},
	{"Movies", "Film"},
	{"Sports", "Trophy"},
	{"Shopping", "ShoppingBag"},
}

// Store is the persistence the service needs; *database.Repository satisfies it
type Store interface {
	GetConfigValue(ctx context.Context, key string) (string, bool, error)
	SetConfigValue(ctx context.Context, key, value string) error
	ListCategoryMappings(ctx context.Context) ([]database.CategoryIconMapping, error)
	UpsertCategoryMapping(ctx context.Context, category, iconName string) (*database.CategoryIconMapping, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every mapping ordered by category, seeding Defaults on first use.
// Seeding never overwrites a category an admin already mapped.
func (s *Service) List(ctx context.Context) ([]database.CategoryIconMapping, error) {
	if err := s.ensureDefaults(ctx); err != nil {
		return nil, err
	}
	return s.store.ListCategoryMappings(ctx)
}

func (s *Service) ensureDefaults(ctx context.Context) error {
	value, ok, err := s.store.GetConfigValue(ctx, initializedKey)
	if err != nil {
		return err
	}
	if ok && value == "true" {
		return nil
	}

	existing, err := s.store.ListCategoryMappings(ctx)
	if err != nil {
		return err
	}
	mapped := make(map[string]bool, len(existing))
	for _, m := range existing {
		mapped[m.Category] = true
	}

	seeded := 0
	for _, d := range Defaults {
		if mapped[d.Category] {
			continue
		}
		if _, err := s.store.UpsertCategoryMapping(ctx, d.Category, d.IconName); err != nil {
			slog.Warn("Failed to create default category mapping", "category", d.Category, "error", err)
			continue
		}
		seeded++
	}

	if err := s.store.SetConfigValue(ctx, initializedKey, "true"); err != nil {
		return fmt.Errorf("failed to mark category mappings initialized: %w", err)
	}
	slog.Info("Category mappings initialized", "seeded", seeded)
	return nil
}

// Set maps category to iconName, replacing any previous icon
func (s *Service) Set(ctx context.Context, category, iconName string) (*database.CategoryIconMapping, error) {
	category = strings.TrimSpace(category)
	iconName = strings.TrimSpace(iconName)

	issues := map[string]string{}
	switch {
	case category == "":
		issues["category"] = "Category must be a non-empty string"
	case len(category) > maxFieldLength:
		issues["category"] = fmt.Sprintf("must be at most %d characters", maxFieldLength)
	}
	switch {
	case iconName == "":
		issues["iconName"] = "IconName must be a non-empty string"
	case len(iconName) > maxFieldLength:
		issues["iconName"] = fmt.Sprintf("must be at most %d characters", maxFieldLength)
	}
	if len(issues) > 0 {
		return nil, errors.NewValidationErrorWithMap("Category and iconName are required", issues)
	}

	return s.store.UpsertCategoryMapping(ctx, category, iconName)
}

// Lookup returns category -> icon name for every mapping
func (s *Service) Lookup(ctx context.Context) (map[string]string, error) {
	mappings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		out[m.Category] = m.IconName
	}
	return out, nil
}
