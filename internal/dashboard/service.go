// Package dashboard owns the dataset the analytics endpoints read from.
//
// The current dataset is an immutable snapshot behind an atomic pointer.
// Imports and deletions build a new snapshot and swap it in whole, so a
// reader sees either the old data or the new data, never a mix.
package dashboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/cache"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
)

// Store is the persistence the service needs; *database.Repository satisfies it
type Store interface {
	LatestUpload(ctx context.Context) (*database.Upload, error)
	LatestActivities(ctx context.Context) ([]analysis.Activity, error)
	AllActivities(ctx context.Context) ([]analysis.Activity, error)
	CreateUpload(ctx context.Context, upload *database.Upload, activities []analysis.Activity) ([]analysis.Activity, error)
	ListUploads(ctx context.Context) ([]database.Upload, error)
	DeleteUpload(ctx context.Context, id string) error
}

// Snapshot is one loaded dataset. Upload is nil when nothing has been uploaded.
type Snapshot struct {
	Dataset  *analysis.Dataset
	Upload   *database.Upload
	Revision uint64
	LoadedAt time.Time
}

type Options struct {
	CacheTTL time.Duration
	TopN     int
	Metrics  *monitoring.Metrics
	Logger   *monitoring.Logger
}

type Service struct {
	store   Store
	current atomic.Pointer[Snapshot]
	views   *ViewCache
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	topN    int

	// serializes writers; readers never take it
	writeMu  sync.Mutex
	revision uint64

	stopRefresh chan struct{}
	stopOnce    sync.Once
}

// NewService creates a service holding an empty snapshot; call Load to read storage
func NewService(store Store, opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.TopN <= 0 {
		opts.TopN = analysis.DefaultTopN
	}

	s := &Service{
		store:       store,
		views:       NewViewCache(opts.CacheTTL),
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		topN:        opts.TopN,
		stopRefresh: make(chan struct{}),
	}
	s.current.Store(&Snapshot{Dataset: analysis.NewDataset(nil), LoadedAt: time.Now()})
	return s
}

// Snapshot returns the current snapshot; never nil
func (s *Service) Snapshot() *Snapshot {
	return s.current.Load()
}

func (s *Service) Dataset() *analysis.Dataset {
	return s.Snapshot().Dataset
}

func (s *Service) Revision() uint64 {
	return s.Snapshot().Revision
}

func (s *Service) TopN() int {
	return s.topN
}

// swap installs a snapshot built from activities. Callers hold writeMu.
func (s *Service) swap(upload *database.Upload, activities []analysis.Activity) *Snapshot {
	s.revision++
	snap := &Snapshot{
		Dataset:  analysis.NewDataset(activities),
		Upload:   upload,
		Revision: s.revision,
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)
	s.views.Clear()

	if s.metrics != nil {
		s.metrics.IncrementSnapshotReload()
	}
	return snap
}

// Load replaces the snapshot with the latest upload from storage
func (s *Service) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	upload, err := s.store.LatestUpload(ctx)
	if err != nil && !stderrors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to load latest upload: %w", err)
	}
	if err != nil {
		upload = nil
	}

	activities, err := s.store.LatestActivities(ctx)
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}

	snap := s.swap(upload, activities)
	slog.Info("Dashboard snapshot loaded", "revision", snap.Revision, "activities", snap.Dataset.Len())
	return nil
}

// Import stores activities as a new upload and makes it the current snapshot
func (s *Service) Import(ctx context.Context, fileName, description string, activities []analysis.Activity) (*database.Upload, error) {
	if len(activities) == 0 {
		return nil, errors.NewValidationError("No valid activities found in CSV")
	}

	start := time.Now()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	upload := database.NewUpload(fileName, description, len(activities))
	stored, err := s.store.CreateUpload(ctx, upload, activities)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpload(0, false)
		}
		return nil, err
	}

	s.swap(upload, stored)

	if s.metrics != nil {
		s.metrics.RecordUpload(len(stored), true)
	}
	if s.logger != nil {
		s.logger.UploadLogger(upload.ID, upload.FileName, len(stored), time.Since(start))
	}
	return upload, nil
}

// DeleteUpload removes an upload and reloads, which falls back to the
// previous upload when the latest is deleted
func (s *Service) DeleteUpload(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.DeleteUpload(ctx, id); err != nil {
		if stderrors.Is(err, database.ErrNotFound) {
			return errors.NewNotFoundError("Upload")
		}
		return err
	}
	return s.loadLocked(ctx)
}

func (s *Service) Uploads(ctx context.Context) ([]database.Upload, error) {
	return s.store.ListUploads(ctx)
}

// Activities returns the snapshot's activities, or every stored activity
// across uploads when latest is false
func (s *Service) Activities(ctx context.Context, latest bool) ([]analysis.Activity, error) {
	if latest {
		return s.Dataset().Activities(), nil
	}
	return s.store.AllActivities(ctx)
}

// Summary returns every analytics view of the current snapshot, memoized per revision
func (s *Service) Summary() analysis.Summary {
	snap := s.Snapshot()
	if summary, ok := s.views.Summary(snap.Revision, s.topN); ok {
		if s.metrics != nil {
			s.metrics.IncrementCacheHit()
		}
		return summary
	}
	if s.metrics != nil {
		s.metrics.IncrementCacheMiss()
	}

	summary := snap.Dataset.Summary(s.topN)
	s.views.SetSummary(snap.Revision, s.topN, summary)
	return summary
}

// CacheKey keys HTTP response caching by revision so a swap invalidates every entry
func (s *Service) CacheKey(c *gin.Context) (string, bool) {
	return "rev:" + strconv.FormatUint(s.Revision(), 10) + ":" + c.Request.URL.RequestURI(), true
}

// ResponseCache is the cache backing the analytics response middleware
func (s *Service) ResponseCache() *cache.Cache {
	return s.views.cache
}

func (s *Service) GetCacheStats() map[string]interface{} {
	stats := s.views.GetStats()
	stats["revision"] = s.Revision()
	return stats
}

// StartAutoRefresh reloads from storage every interval so uploads written by
// another process (the CLI, another replica) become visible
func (s *Service) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopRefresh:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := s.refresh(ctx); err != nil {
					slog.Error("Failed to refresh dashboard snapshot", "error", err)
				}
				cancel()
			}
		}
	}()
}

// refresh reloads only when the latest upload differs from the snapshot's
func (s *Service) refresh(ctx context.Context) error {
	latest, err := s.store.LatestUpload(ctx)
	if err != nil && !stderrors.Is(err, database.ErrNotFound) {
		return err
	}

	current := s.Snapshot().Upload
	switch {
	case latest == nil && current == nil:
		return nil
	case latest != nil && current != nil && latest.ID == current.ID:
		return nil
	}
	return s.Load(ctx)
}

// Close stops auto refresh and the view cache
func (s *Service) Close() {
	s.stopOnce.Do(func() {
		close(s.stopRefresh)
		s.views.Close()
	})
}
