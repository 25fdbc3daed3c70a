package iconmap

import (
	"context"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

func newTestService(t *testing.T) (*Service, *database.Repository) {
	t.Helper()
	db, err := database.NewDB(context.Background(), database.Config{
		Driver:  database.DriverSQLite,
		DataDir: filepath.Join(t.TempDir(), "data"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := database.NewRepository(db)
	return NewService(repo), repo
}

func TestListSeedsDefaultsOnce(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	mappings, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, mappings, len(Defaults))
	assert.Equal(t, "Dining", mappings[0].Category)

	flag, ok, err := repo.GetConfigValue(ctx, initializedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", flag)

	// a default an admin later changes is not restored
	_, err = svc.Set(ctx, "Food", "Pizza")
	require.NoError(t, err)

	lookup, err := svc.Lookup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pizza", lookup["Food"])
	assert.Len(t, lookup, len(Defaults))
}

func TestListKeepsPreexistingMapping(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := repo.UpsertCategoryMapping(ctx, "Outdoors", "Mountain")
	require.NoError(t, err)

	lookup, err := svc.Lookup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mountain", lookup["Outdoors"])
	assert.Equal(t, "Film", lookup["Movies"])
}

func TestSet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		icon     string
		wantErr  bool
	}{
		{"trims input", "  Museums ", " Landmark ", false},
		{"empty category", "   ", "Landmark", true},
		{"empty icon", "Museums", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := svc.Set(ctx, tt.category, tt.icon)
			if tt.wantErr {
				var appErr *errors.AppError
				require.True(t, stderrors.As(err, &appErr))
				assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Museums", m.Category)
			assert.Equal(t, "Landmark", m.IconName)
		})
	}
}
