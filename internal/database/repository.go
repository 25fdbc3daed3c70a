package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = apperrors.ErrNotFound

const (
	stmtLatestUpload       = "latest_upload"
	stmtActivitiesByUpload = "activities_by_upload"
	stmtAdminByUsername    = "admin_by_username"
	stmtAdminByID          = "admin_by_id"
)

const activityColumns = `id, upload_id, name, category, price, love_votes, like_votes, pass_votes,
	score, website_link, google_maps_url, group_names, created_at`

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the connection; it backs the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUpload stores the upload row and its activities in one transaction.
// Activity IDs, upload IDs and timestamps are assigned here; the returned
// slice is what was written.
func (r *Repository) CreateUpload(ctx context.Context, upload *Upload, activities []analysis.Activity) ([]analysis.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin upload transaction: %w", err)
	}
	defer tx.Rollback()

	upload.TotalActivities = len(activities)
	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO activity_uploads (id, file_name, description, total_activities, uploaded_at, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM activity_uploads))
	`), upload.ID, upload.FileName, upload.Description, upload.TotalActivities, toMillis(upload.UploadedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert upload: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.db.Rebind(`
		INSERT INTO activities (id, upload_id, row_index, name, category, price, love_votes, like_votes,
			pass_votes, score, website_link, google_maps_url, group_names, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare activity insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]analysis.Activity, len(activities))
	for i, a := range activities {
		a.ID = uuid.New().String()
		a.UploadID = upload.ID
		a.CreatedAt = upload.UploadedAt
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.UploadID, i, a.Name, a.Category, a.Price,
			a.LoveVotes, a.LikeVotes, a.PassVotes, a.Score,
			a.WebsiteLink, a.GoogleMapsURL, a.GroupNames, toMillis(a.CreatedAt),
		); err != nil {
			return nil, fmt.Errorf("failed to insert activity %q: %w", a.Name, err)
		}
		stored[i] = a
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upload: %w", err)
	}
	return stored, nil
}

func scanUpload(row interface{ Scan(...any) error }) (*Upload, error) {
	var u Upload
	var uploadedAt int64
	if err := row.Scan(&u.ID, &u.FileName, &u.Description, &u.TotalActivities, &uploadedAt); err != nil {
		return nil, err
	}
	u.UploadedAt = fromMillis(uploadedAt)
	return &u, nil
}

// LatestUpload returns the most recent upload or ErrNotFound.
func (r *Repository) LatestUpload(ctx context.Context) (*Upload, error) {
	stmt, err := r.db.GetPreparedStatement(stmtLatestUpload)
	if err != nil {
		return nil, err
	}
	u, err := scanUpload(stmt.QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest upload: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUpload(ctx context.Context, id string) (*Upload, error) {
	u, err := scanUpload(r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, file_name, description, total_activities, uploaded_at
		FROM activity_uploads WHERE id = ?
	`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query upload: %w", err)
	}
	return u, nil
}

// ListUploads returns uploads newest first. Uploads sharing a timestamp are
// ordered by insertion.
func (r *Repository) ListUploads(ctx context.Context) ([]Upload, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_name, description, total_activities, uploaded_at
		FROM activity_uploads ORDER BY uploaded_at DESC, seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	uploads := []Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, *u)
	}
	return uploads, rows.Err()
}

// DeleteUpload removes an upload and its activities.
func (r *Repository) DeleteUpload(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	// explicit child delete so sqlite connections without foreign_keys behave the same
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM activities WHERE upload_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}
	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM activity_uploads WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func scanActivities(rows *sql.Rows) ([]analysis.Activity, error) {
	defer rows.Close()

	activities := []analysis.Activity{}
	for rows.Next() {
		var a analysis.Activity
		var createdAt int64
		if err := rows.Scan(
			&a.ID, &a.UploadID, &a.Name, &a.Category, &a.Price,
			&a.LoveVotes, &a.LikeVotes, &a.PassVotes, &a.Score,
			&a.WebsiteLink, &a.GoogleMapsURL, &a.GroupNames, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.CreatedAt = fromMillis(createdAt)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ActivitiesByUpload returns an upload's activities in file order.
func (r *Repository) ActivitiesByUpload(ctx context.Context, uploadID string) ([]analysis.Activity, error) {
	stmt, err := r.db.GetPreparedStatement(stmtActivitiesByUpload)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	return scanActivities(rows)
}

// LatestActivities returns the activities of the newest upload, or an empty
// slice when nothing has been uploaded yet.
func (r *Repository) LatestActivities(ctx context.Context) ([]analysis.Activity, error) {
	upload, err := r.LatestUpload(ctx)
	if errors.Is(err, ErrNotFound) {
		return []analysis.Activity{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.ActivitiesByUpload(ctx, upload.ID)
}

// AllActivities returns every stored activity, newest upload first.
func (r *Repository) AllActivities(ctx context.Context) ([]analysis.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.upload_id, a.name, a.category, a.price, a.love_votes, a.like_votes, a.pass_votes,
			a.score, a.website_link, a.google_maps_url, a.group_names, a.created_at
		FROM activities a
		JOIN activity_uploads u ON u.id = a.upload_id
		ORDER BY u.uploaded_at DESC, u.seq DESC, a.row_index ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	return scanActivities(rows)
}

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
