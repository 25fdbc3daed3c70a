package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const broadcastColumns = `id, slug, title, body_markdown, level, active, version,
	starts_at, ends_at, created_at, updated_at`

func scanBroadcast(row interface{ Scan(...any) error }) (*Broadcast, error) {
	var b Broadcast
	var startsAt, endsAt sql.NullInt64
	var createdAt, updatedAt int64
	if err := row.Scan(
		&b.ID, &b.Slug, &b.Title, &b.BodyMarkdown, &b.Level, &b.Active, &b.Version,
		&startsAt, &endsAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	b.StartsAt = timeFromNull(startsAt)
	b.EndsAt = timeFromNull(endsAt)
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return &b, nil
}

func (r *Repository) queryBroadcasts(ctx context.Context, query string, args ...any) ([]Broadcast, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query broadcasts: %w", err)
	}
	defer rows.Close()

	out := []Broadcast{}
	for rows.Next() {
		b, err := scanBroadcast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan broadcast: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListBroadcasts returns every broadcast, most recently updated first.
func (r *Repository) ListBroadcasts(ctx context.Context) ([]Broadcast, error) {
	return r.queryBroadcasts(ctx, `SELECT `+broadcastColumns+` FROM broadcasts ORDER BY updated_at DESC, id DESC`)
}

// ListActiveBroadcasts returns broadcasts flagged active; schedule windows are
// applied by the caller.
func (r *Repository) ListActiveBroadcasts(ctx context.Context) ([]Broadcast, error) {
	return r.queryBroadcasts(ctx, `SELECT `+broadcastColumns+` FROM broadcasts WHERE active = ? ORDER BY updated_at DESC, id DESC`, true)
}

func (r *Repository) GetBroadcast(ctx context.Context, id int64) (*Broadcast, error) {
	b, err := scanBroadcast(r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+broadcastColumns+` FROM broadcasts WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query broadcast: %w", err)
	}
	return b, nil
}

// CreateBroadcast inserts b and fills in its generated ID.
func (r *Repository) CreateBroadcast(ctx context.Context, b *Broadcast) error {
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO broadcasts (slug, title, body_markdown, level, active, version, starts_at, ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		b.Slug, b.Title, b.BodyMarkdown, b.Level, b.Active, b.Version,
		nullMillis(b.StartsAt), nullMillis(b.EndsAt), toMillis(b.CreatedAt), toMillis(b.UpdatedAt),
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to create broadcast: %w", err)
	}
	return nil
}

// UpdateBroadcast overwrites every mutable column of b.
func (r *Repository) UpdateBroadcast(ctx context.Context, b *Broadcast) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE broadcasts SET slug = ?, title = ?, body_markdown = ?, level = ?, active = ?,
			version = ?, starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ?
	`),
		b.Slug, b.Title, b.BodyMarkdown, b.Level, b.Active,
		b.Version, nullMillis(b.StartsAt), nullMillis(b.EndsAt), toMillis(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update broadcast: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBroadcast(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM broadcasts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete broadcast: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
