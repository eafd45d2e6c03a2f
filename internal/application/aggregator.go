package application

import (
	"context"
	"fmt"

	"github.com/davarch/ci-dashboard/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Aggregator struct {
	log         *zap.Logger
	query       domain.RunQuery
	cache       *FreshnessCache
	roster      []string
	known       map[string]struct{}
	concurrency int
}

// NewAggregator builds the aggregator and the cache it owns. The roster is
// copied and never changes afterwards. concurrency <= 1 fetches one
// application at a time.
func NewAggregator(l *zap.Logger, q domain.RunQuery, clock domain.Clock, roster []string, concurrency int) *Aggregator {
	r := make([]string, len(roster))
	copy(r, roster)

	known := make(map[string]struct{}, len(r))
	for _, app := range r {
		known[app] = struct{}{}
	}

	return &Aggregator{
		log:         l,
		query:       q,
		cache:       NewFreshnessCache(l, clock),
		roster:      r,
		known:       known,
		concurrency: concurrency,
	}
}

func (a *Aggregator) Roster() []string {
	out := make([]string, len(a.roster))
	copy(out, a.roster)
	return out
}

func (a *Aggregator) Has(app string) bool {
	_, ok := a.known[app]
	return ok
}

func (a *Aggregator) GetOne(ctx context.Context, app string) (domain.AppSnapshot, error) {
	if !a.Has(app) {
		return domain.AppSnapshot{}, fmt.Errorf("%w: %q", domain.ErrUnknownApplication, app)
	}
	return a.fetch(ctx, app), nil
}

// GetAll returns a snapshot for every roster application in roster order.
// A failing application shows up as all-pending and does not affect the rest.
func (a *Aggregator) GetAll(ctx context.Context) domain.StatusSet {
	out := make(domain.StatusSet, len(a.roster))

	if a.concurrency <= 1 {
		for i, app := range a.roster {
			out[i] = domain.AppStatus{App: app, Snapshot: a.fetch(ctx, app)}
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, app := range a.roster {
		i, app := i, app
		g.Go(func() error {
			out[i] = domain.AppStatus{App: app, Snapshot: a.fetch(ctx, app)}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Invalidate forces the next fetch of app to query again.
func (a *Aggregator) Invalidate(app string) {
	a.cache.Invalidate(app)
}

func (a *Aggregator) fetch(ctx context.Context, app string) domain.AppSnapshot {
	return a.cache.Get(ctx, app, func(ctx context.Context) (domain.AppSnapshot, error) {
		runs, err := a.query.RecentRuns(ctx, app)
		if err != nil {
			return domain.AppSnapshot{}, err
		}
		return domain.Classify(app, runs), nil
	})
}
