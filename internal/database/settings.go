package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// GetConfigValue reads an app_config entry. ok is false when the key is unset.
func (r *Repository) GetConfigValue(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT value FROM app_config WHERE name = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read config %s: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO app_config (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), key, value, toMillis(now()))
	if err != nil {
		return fmt.Errorf("failed to write config %s: %w", key, err)
	}
	return nil
}

// ListCategoryMappings returns mappings ordered by category.
func (r *Repository) ListCategoryMappings(ctx context.Context) ([]CategoryIconMapping, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, icon_name, created_at, updated_at
		FROM category_icon_mappings ORDER BY category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list category mappings: %w", err)
	}
	defer rows.Close()

	mappings := []CategoryIconMapping{}
	for rows.Next() {
		var m CategoryIconMapping
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &m.Category, &m.IconName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category mapping: %w", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		m.UpdatedAt = fromMillis(updatedAt)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// UpsertCategoryMapping creates the mapping or replaces the icon of an existing category.
func (r *Repository) UpsertCategoryMapping(ctx context.Context, category, iconName string) (*CategoryIconMapping, error) {
	ts := now()
	m := CategoryIconMapping{
		ID:        uuid.New().String(),
		Category:  category,
		IconName:  iconName,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO category_icon_mappings (id, category, icon_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET icon_name = excluded.icon_name, updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`), m.ID, m.Category, m.IconName, toMillis(ts), toMillis(ts)).Scan(&m.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category mapping: %w", err)
	}
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return &m, nil
}
