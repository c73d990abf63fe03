package service

import (
	"sync"
	"time"

	"soil_monitor/internal/models"
)

// defaultCacheTTL is the validity window for a cached aggregation result.
const defaultCacheTTL = 5 * time.Minute

// historyCache maps a "<period>-<year>-<month>" key to a previously computed
// daily list. Entries expire logically: validity is evaluated at read time,
// stale entries are treated as misses and overwritten by the next successful
// fetch. The clock is injected so tests can move time.
type historyCache struct {
	mu      sync.Mutex
	entries map[string]models.CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newHistoryCache(ttl time.Duration, now func() time.Time) *historyCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &historyCache{
		entries: make(map[string]models.CacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// get returns the cached daily list for key, or a miss when absent or stale.
func (c *historyCache) get(key string) ([]models.DailyMoistureData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().UnixMilli()-entry.Timestamp >= c.ttl.Milliseconds() {
		return nil, false
	}
	return entry.Data, true
}

// put stores a freshly computed daily list. Empty data is never inserted so a
// transient all-errors fetch cannot poison the cache.
func (c *historyCache) put(key string, data []models.DailyMoistureData, month, year int) {
	if len(data) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = models.CacheEntry{
		Data:      data,
		Timestamp: c.now().UnixMilli(),
		Month:     month,
		Year:      year,
	}
}
