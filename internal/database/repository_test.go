package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
)

func newTestRepo(t *testing.T, driver string) *Repository {
	t.Helper()
	db, err := NewDB(context.Background(), Config{
		Driver: driver,
		URL:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func sampleActivities() []analysis.Activity {
	return []analysis.Activity{
		analysis.Activity{Name: "Hiking", Category: "Outdoors", Price: "Free", LoveVotes: 3, LikeVotes: 1}.WithScore(),
		analysis.Activity{Name: "Museum", Category: "Culture", Price: "$20", LoveVotes: 1, LikeVotes: 2, PassVotes: 1}.WithScore(),
		analysis.Activity{Name: "Karaoke", Category: "Entertainment", Price: "$15", GroupNames: "A / B"}.WithScore(),
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	lite := &DB{driver: DriverSQLite}

	q := `SELECT * FROM t WHERE a = ? AND b = ?`
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2`, pg.Rebind(q))
	assert.Equal(t, q, lite.Rebind(q))
}

func TestDataSource(t *testing.T) {
	_, err := dataSource(Config{Driver: DriverPostgres})
	assert.Error(t, err)

	_, err = dataSource(Config{Driver: "mysql"})
	assert.Error(t, err)

	dir := t.TempDir()
	dsn, err := dataSource(Config{Driver: DriverPureSQLite, DataDir: dir})
	require.NoError(t, err)
	assert.Contains(t, dsn, filepath.Join(dir, defaultFileName))
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
}

func TestUploadRoundTrip(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverPureSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestRepo(t, driver)

			upload := NewUpload("trip.csv", "first pass", 0)
			stored, err := repo.CreateUpload(ctx, upload, sampleActivities())
			require.NoError(t, err)
			require.Len(t, stored, 3)
			assert.Equal(t, 3, upload.TotalActivities)

			got, err := repo.ActivitiesByUpload(ctx, upload.ID)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "Hiking", got[0].Name)
			assert.Equal(t, "Karaoke", got[2].Name)
			assert.Equal(t, 7.0, got[0].Score)
			assert.Equal(t, "A / B", got[2].GroupNames)
			assert.Equal(t, upload.ID, got[1].UploadID)
			assert.Equal(t, stored[1].ID, got[1].ID)

			latest, err := repo.LatestUpload(ctx)
			require.NoError(t, err)
			assert.Equal(t, upload.ID, latest.ID)
			assert.Equal(t, upload.UploadedAt.UnixMilli(), latest.UploadedAt.UnixMilli())
		})
	}
}

func TestLatestActivitiesPicksNewestUpload(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, DriverSQLite)

	empty, err := repo.LatestActivities(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	older := NewUpload("old.csv", "", 0)
	older.UploadedAt = older.UploadedAt.Add(-time.Hour)
	_, err = repo.CreateUpload(ctx, older, sampleActivities()[:1])
	require.NoError(t, err)

	newer := NewUpload("new.csv", "", 0)
	_, err = repo.CreateUpload(ctx, newer, sampleActivities()[1:])
	require.NoError(t, err)

	latest, err := repo.LatestActivities(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Museum", latest[0].Name)

	all, err := repo.AllActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Hiking", all[2].Name)

	uploads, err := repo.ListUploads(ctx)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "new.csv", uploads[0].FileName)
}

func TestSameMillisecondUploadsKeepInsertionOrder(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverPureSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestRepo(t, driver)
			at := time.Now().UTC().Truncate(time.Millisecond)

			// ids sort opposite to insertion order
			for _, id := range []string{"ffff", "aaaa"} {
				u := NewUpload(id+".csv", "", 0)
				u.ID = id
				u.UploadedAt = at
				_, err := repo.CreateUpload(ctx, u, sampleActivities()[:1])
				require.NoError(t, err)
			}

			latest, err := repo.LatestUpload(ctx)
			require.NoError(t, err)
			assert.Equal(t, "aaaa", latest.ID)

			uploads, err := repo.ListUploads(ctx)
			require.NoError(t, err)
			require.Len(t, uploads, 2)
			assert.Equal(t, []string{"aaaa", "ffff"}, []string{uploads[0].ID, uploads[1].ID})

			// the sequence stays above every remaining upload after a delete
			require.NoError(t, repo.DeleteUpload(ctx, "aaaa"))
			third := NewUpload("third.csv", "", 0)
			third.UploadedAt = at
			_, err = repo.CreateUpload(ctx, third, sampleActivities()[:1])
			require.NoError(t, err)

			latest, err = repo.LatestUpload(ctx)
			require.NoError(t, err)
			assert.Equal(t, third.ID, latest.ID)
		})
	}
}

func TestDeleteUploadCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, DriverSQLite)

	upload := NewUpload("trip.csv", "", 0)
	_, err := repo.CreateUpload(ctx, upload, sampleActivities())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteUpload(ctx, upload.ID))

	acts, err := repo.ActivitiesByUpload(ctx, upload.ID)
	require.NoError(t, err)
	assert.Empty(t, acts)

	_, err = repo.GetUpload(ctx, upload.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteUpload(ctx, upload.ID), ErrNotFound)
}

func TestAdminUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, DriverSQLite)

	_, err := repo.GetAdminByUsername(ctx, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	u := NewAdminUser("admin", "hash-1")
	require.NoError(t, repo.CreateAdmin(ctx, u))

	err = repo.CreateAdmin(ctx, NewAdminUser("admin", "hash-2"))
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	require.NoError(t, repo.UpdateAdminPassword(ctx, u.ID, "hash-3"))
	got, err := repo.GetAdminByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-3", got.PasswordHash)

	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConfigAndCategoryMappings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, DriverPureSQLite)

	_, ok, err := repo.GetConfigValue(ctx, "categoryMappingsInitialized")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetConfigValue(ctx, "categoryMappingsInitialized", "true"))
	v, ok, err := repo.GetConfigValue(ctx, "categoryMappingsInitialized")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	first, err := repo.UpsertCategoryMapping(ctx, "Food", "UtensilsCrossed")
	require.NoError(t, err)
	second, err := repo.UpsertCategoryMapping(ctx, "Food", "Pizza")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Pizza", second.IconName)

	_, err = repo.UpsertCategoryMapping(ctx, "Dining", "ChefHat")
	require.NoError(t, err)

	mappings, err := repo.ListCategoryMappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "Dining", mappings[0].Category)
}

func TestBroadcastCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, DriverSQLite)

	ts := now()
	ends := ts.Add(time.Hour)
	b := &Broadcast{
		Slug:         "welcome",
		Title:        "Welcome",
		BodyMarkdown: "**hi**",
		Level:        "info",
		Active:       true,
		Version:      1,
		EndsAt:       &ends,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	require.NoError(t, repo.CreateBroadcast(ctx, b))
	assert.NotZero(t, b.ID)

	dup := *b
	err := repo.CreateBroadcast(ctx, &dup)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	got, err := repo.GetBroadcast(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartsAt)
	require.NotNil(t, got.EndsAt)
	assert.Equal(t, ends.UnixMilli(), got.EndsAt.UnixMilli())

	got.Active = false
	got.Version = 2
	require.NoError(t, repo.UpdateBroadcast(ctx, got))

	active, err := repo.ListActiveBroadcasts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.ListBroadcasts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].Version)

	require.NoError(t, repo.DeleteBroadcast(ctx, b.ID))
	assert.ErrorIs(t, repo.DeleteBroadcast(ctx, b.ID), ErrNotFound)
}
