package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// FreshnessWindow is how long a fetched snapshot is served without
// querying again. It applies to every application.
const FreshnessWindow = 30 * time.Second

type RefreshFunc func(ctx context.Context) (domain.AppSnapshot, error)

type cacheEntry struct {
	snapshot  domain.AppSnapshot
	fetchedAt time.Time
}

// FreshnessCache keeps the last good snapshot per application.
//
// The mutex only guards the map. Refreshes run unlocked and are not
// de-duplicated: concurrent misses for the same app each run the query and
// the last one to finish wins.
type FreshnessCache struct {
	log   *zap.Logger
	clock domain.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewFreshnessCache(l *zap.Logger, clock domain.Clock) *FreshnessCache {
	return &FreshnessCache{log: l, clock: clock, entries: make(map[string]cacheEntry)}
}

// Get returns the cached snapshot for app while it is fresh, otherwise the
// result of refresh. A failed refresh yields an all-pending snapshot and
// leaves the existing entry and its timestamp alone, so the next call
// queries again.
func (c *FreshnessCache) Get(ctx context.Context, app string, refresh RefreshFunc) domain.AppSnapshot {
	c.mu.Lock()
	e, ok := c.entries[app]
	c.mu.Unlock()

	if ok && c.clock.Now().Sub(e.fetchedAt) < FreshnessWindow {
		metrics.CacheHits.WithLabelValues(app).Inc()
		return e.snapshot
	}

	start := time.Now()
	snap, err := refresh(ctx)
	metrics.RefreshDuration.WithLabelValues(app).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Refreshes.WithLabelValues(app, outcome(err)).Inc()
		c.log.Warn("refresh failed",
			zap.String("app", app),
			zap.Bool("stale_entry", ok),
			zap.Error(err),
		)
		return domain.PendingSnapshot(app)
	}
	metrics.Refreshes.WithLabelValues(app, "ok").Inc()

	c.mu.Lock()
	c.entries[app] = cacheEntry{snapshot: snap, fetchedAt: c.clock.Now()}
	c.mu.Unlock()

	return snap
}

// Invalidate drops the entry for app so the next Get queries again.
func (c *FreshnessCache) Invalidate(app string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, app)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedOutput):
		return "malformed"
	case errors.Is(err, domain.ErrExternalQuery):
		return "query_failed"
	default:
		return "error"
	}
}
