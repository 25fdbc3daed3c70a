package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func scanAdmin(row *sql.Row) (*AdminUser, error) {
	var u AdminUser
	var createdAt, updatedAt int64
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admin user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error) {
	stmt, err := r.db.GetPreparedStatement(stmtAdminByUsername)
	if err != nil {
		return nil, err
	}
	return scanAdmin(stmt.QueryRowContext(ctx, username))
}

func (r *Repository) GetAdminByID(ctx context.Context, id string) (*AdminUser, error) {
	stmt, err := r.db.GetPreparedStatement(stmtAdminByID)
	if err != nil {
		return nil, err
	}
	return scanAdmin(stmt.QueryRowContext(ctx, id))
}

// CreateAdmin inserts a new admin. A taken username surfaces as a unique violation.
func (r *Repository) CreateAdmin(ctx context.Context, u *AdminUser) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO admin_users (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), u.ID, u.Username, u.PasswordHash, toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func (r *Repository) UpdateAdminPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE admin_users SET password_hash = ?, updated_at = ? WHERE id = ?
	`), passwordHash, toMillis(now()), id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return n, nil
}
