package dashboard

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/cache"
)

// ViewCache memoizes computed views per snapshot revision
type ViewCache struct {
	cache *cache.Cache
}

func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{cache: cache.NewCache(ttl)}
}

func summaryKey(revision uint64, topN int) string {
	return fmt.Sprintf("summary:%d:%d", revision, topN)
}

// Summary retrieves a cached summary
func (vc *ViewCache) Summary(revision uint64, topN int) (analysis.Summary, bool) {
	key := summaryKey(revision, topN)

	data, found := vc.cache.Get(key)
	if !found {
		return analysis.Summary{}, false
	}

	var summary analysis.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		slog.Error("Failed to unmarshal cached summary", "error", err, "key", key)
		return analysis.Summary{}, false
	}

	slog.Debug("Summary cache hit", "revision", revision)
	return summary, true
}

// SetSummary caches a summary
func (vc *ViewCache) SetSummary(revision uint64, topN int, summary analysis.Summary) {
	key := summaryKey(revision, topN)

	data, err := json.Marshal(summary)
	if err != nil {
		slog.Error("Failed to marshal summary for cache", "error", err, "revision", revision)
		return
	}

	vc.cache.Set(key, data)
	slog.Debug("Summary cached", "revision", revision, "bytes", len(data))
}

// Clear drops every cached view and response
func (vc *ViewCache) Clear() {
	vc.cache.Clear()
}

func (vc *ViewCache) Close() {
	vc.cache.Close()
}

// GetStats returns cache statistics
func (vc *ViewCache) GetStats() map[string]interface{} {
	return vc.cache.Stats()
}
