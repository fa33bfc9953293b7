package metrics

import "sync/atomic"

// CacheMetric counts hits and misses for one document kind.
type CacheMetric struct {
	name   string
	hits   atomic.Int64
	misses atomic.Int64
}

func newCacheMetric(name string) *CacheMetric {
	return &CacheMetric{name: name}
}

// Hit records a cache hit.
func (m *CacheMetric) Hit() {
	if enabled.Load() {
		m.hits.Add(1)
	}
}

// Miss records a cache miss.
func (m *CacheMetric) Miss() {
	if enabled.Load() {
		m.misses.Add(1)
	}
}

// Hits returns the number of hits.
func (m *CacheMetric) Hits() int64 { return m.hits.Load() }

// Misses returns the number of misses.
func (m *CacheMetric) Misses() int64 { return m.misses.Load() }

// Reset zeroes both counters.
func (m *CacheMetric) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
}

// Stats returns a snapshot of the counters.
func (m *CacheMetric) Stats() CacheStats {
	hits, misses := m.hits.Load(), m.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{Name: m.name, Hits: hits, Misses: misses, HitRate: rate}
}

// CacheStats holds a snapshot of cache counters.
type CacheStats struct {
	Name    string  `json:"name"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Per-kind response cache metrics.
var (
	RegionCache      = newCacheMetric("region_cache")
	CuisineCache     = newCacheMetric("cuisine_cache")
	CompetitiveCache = newCacheMetric("competitive_cache")
)

// AllCacheMetrics returns all registered cache metrics.
func AllCacheMetrics() []*CacheMetric {
	return []*CacheMetric{RegionCache, CuisineCache, CompetitiveCache}
}

// AllCacheStats returns stats for cache metrics that saw traffic.
func AllCacheStats() []CacheStats {
	all := AllCacheMetrics()
	stats := make([]CacheStats, 0, len(all))
	for _, m := range all {
		if m.Hits()+m.Misses() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
