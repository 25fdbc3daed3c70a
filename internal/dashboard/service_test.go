package dashboard

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
)

func newTestService(t *testing.T) (*Service, *database.Repository, *monitoring.Metrics) {
	t.Helper()
	db, err := database.NewDB(context.Background(), database.Config{
		Driver:  database.DriverSQLite,
		DataDir: filepath.Join(t.TempDir(), "data"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := database.NewRepository(db)
	metrics := monitoring.NewMetrics()
	svc := NewService(repo, Options{CacheTTL: time.Minute, TopN: 3, Metrics: metrics})
	t.Cleanup(svc.Close)
	return svc, repo, metrics
}

func activity(name, category, price string, love, like, pass int) analysis.Activity {
	return analysis.Activity{
		Name: name, Category: category, Price: price,
		LoveVotes: love, LikeVotes: like, PassVotes: pass,
	}.WithScore()
}

func firstBatch() []analysis.Activity {
	return []analysis.Activity{
		activity("Hiking", "Outdoors", "Free", 3, 1, 0),
		activity("Sushi", "Food", "$45", 1, 2, 1),
	}
}

func TestNewServiceStartsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	snap := svc.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Dataset.Len())
	assert.Nil(t, snap.Upload)
	assert.Zero(t, snap.Revision)

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 0, svc.Dataset().Len())
	assert.Equal(t, uint64(1), svc.Revision())
}

func TestImportSwapsSnapshot(t *testing.T) {
	svc, _, metrics := newTestService(t)
	ctx := context.Background()

	before := svc.Snapshot()
	upload, err := svc.Import(ctx, "trip.csv", "first pass", firstBatch())
	require.NoError(t, err)

	after := svc.Snapshot()
	assert.NotSame(t, before, after)
	assert.Equal(t, 0, before.Dataset.Len(), "old snapshot is untouched")
	assert.Equal(t, 2, after.Dataset.Len())
	assert.Equal(t, upload.ID, after.Upload.ID)
	assert.Equal(t, 2, upload.TotalActivities)

	for _, a := range after.Dataset.Activities() {
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, upload.ID, a.UploadID)
	}

	assert.Equal(t, int64(1), metrics.Uploads)
	assert.Equal(t, int64(2), metrics.ActivitiesImported)
}

func TestImportRejectsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Import(context.Background(), "empty.csv", "", nil)
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, "No valid activities found in CSV", appErr.ErrBuilder.Msg)
}

func TestSummaryMemoizedPerRevision(t *testing.T) {
	svc, _, metrics := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "a.csv", "", firstBatch())
	require.NoError(t, err)

	first := svc.Summary()
	second := svc.Summary()
	assert.Equal(t, first.Totals, second.Totals)
	assert.Equal(t, first.CategoryStats, second.CategoryStats)
	require.Len(t, second.TopActivities, 2)
	assert.Equal(t, first.TopActivities[0].ID, second.TopActivities[0].ID)
	assert.Equal(t, 2, first.Totals.TotalActivities)
	assert.Equal(t, int64(1), metrics.CacheHits)

	_, err = svc.Import(ctx, "b.csv", "", []analysis.Activity{activity("Karaoke", "Entertainment", "$20", 5, 0, 0)})
	require.NoError(t, err)

	third := svc.Summary()
	assert.Equal(t, 1, third.Totals.TotalActivities)
	assert.Equal(t, "Karaoke", third.TopActivities[0].Name)
}

func TestDeleteUploadFallsBack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, "a.csv", "", firstBatch())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Import(ctx, "b.csv", "", []analysis.Activity{activity("Karaoke", "Entertainment", "$20", 5, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, second.ID, svc.Snapshot().Upload.ID)

	require.NoError(t, svc.DeleteUpload(ctx, second.ID))
	assert.Equal(t, first.ID, svc.Snapshot().Upload.ID)
	assert.Equal(t, 2, svc.Dataset().Len())

	err = svc.DeleteUpload(ctx, second.ID)
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)

	require.NoError(t, svc.DeleteUpload(ctx, first.ID))
	assert.Nil(t, svc.Snapshot().Upload)
	assert.Equal(t, 0, svc.Dataset().Len())
}

func TestActivitiesLatestVersusAll(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "a.csv", "", firstBatch())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Import(ctx, "b.csv", "", []analysis.Activity{activity("Karaoke", "Entertainment", "$20", 5, 0, 0)})
	require.NoError(t, err)

	latest, err := svc.Activities(ctx, true)
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	all, err := svc.Activities(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Karaoke", all[0].Name)
}

func TestRefreshPicksUpExternalUpload(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.refresh(ctx))
	assert.Zero(t, svc.Revision(), "nothing to reload")

	upload := database.NewUpload("cli.csv", "", 2)
	_, err := repo.CreateUpload(ctx, upload, firstBatch())
	require.NoError(t, err)

	require.NoError(t, svc.refresh(ctx))
	assert.Equal(t, upload.ID, svc.Snapshot().Upload.ID)
	rev := svc.Revision()

	require.NoError(t, svc.refresh(ctx))
	assert.Equal(t, rev, svc.Revision(), "unchanged upload does not reload")
}

func TestCacheKeyTracksRevision(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(t)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/analytics/top?limit=5", nil)

	before, ok := svc.CacheKey(c)
	require.True(t, ok)
	assert.Equal(t, "rev:0:/api/analytics/top?limit=5", before)

	_, err := svc.Import(context.Background(), "a.csv", "", firstBatch())
	require.NoError(t, err)
	after, _ := svc.CacheKey(c)
	assert.NotEqual(t, before, after)
}

func TestConcurrentReadsDuringImport(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := svc.Snapshot()
				summary := snap.Dataset.Summary(3)
				assert.Equal(t, snap.Dataset.Len(), summary.Totals.TotalActivities)
			}
		}()
	}

	for i := 0; i < 3; i++ {
		_, err := svc.Import(ctx, "batch.csv", "", firstBatch())
		require.NoError(t, err)
	}
	wg.Wait()
}
