package service

import (
	"context"
	"sync"
	"time"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

const (
	defaultInterval = 5 * time.Second
	defaultBudget   = 2
)

// Coordinator is the background scheduling loop. Each tick it enumerates
// tracked keys, claims the due ones through the store's MarkPending gate,
// and hands winners to a bounded task pool. Results are committed as each
// fetch resolves; the loop itself never waits on a fetch.
type Coordinator struct {
	store   ports.Store
	fetcher ports.Fetcher
	logger  ports.Logger
	pool    TaskPool

	interval time.Duration

	mu     sync.Mutex
	forced map[domain.CacheKey]struct{}
}

type CoordinatorOption func(*Coordinator)

func WithInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithPool(p TaskPool) CoordinatorOption {
	return func(c *Coordinator) {
		if p != nil {
			c.pool = p
		}
	}
}

func NewCoordinator(store ports.Store, fetcher ports.Fetcher, logger ports.Logger, budget int, opts ...CoordinatorOption) *Coordinator {
	if budget <= 0 {
		budget = defaultBudget
	}
	c := &Coordinator{
		store:    store,
		fetcher:  fetcher,
		logger:   logger,
		pool:     NewWorkerPool(budget, budget*16),
		interval: defaultInterval,
		forced:   make(map[domain.CacheKey]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Track registers a key so the next tick considers it. Used for startup
// pre-warming and by the publisher for lazy tracking of newly requested
// sections.
func (c *Coordinator) Track(key domain.CacheKey, reason domain.RefreshReason) {
	c.store.Track(key)
	if reason == domain.ReasonUserForced {
		c.Force(key)
	}
}

// Force queues a user-forced refresh for the key, bypassing the staleness
// check. A force against a key whose fetch is already in flight is a no-op;
// the in-flight fetch will satisfy it.
func (c *Coordinator) Force(key domain.CacheKey) {
	c.store.Track(key)
	c.mu.Lock()
	c.forced[key] = struct{}{}
	c.mu.Unlock()
}

// Run starts the pool and ticks until the context is cancelled. An
// immediate first tick covers startup pre-warmed keys without waiting a
// full interval.
func (c *Coordinator) Run(ctx context.Context) error {
	c.pool.Start(ctx, c.execute)
	defer c.pool.Close()

	c.logger.Infof(ctx, "Refresh coordinator started (interval: %s)", c.interval)

	c.Tick(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Tick(ctx)
		case <-ctx.Done():
			c.logger.Infof(ctx, "Refresh coordinator stopping: %v", ctx.Err())
			return ctx.Err()
		}
	}
}

// Tick runs one scheduling pass. Exposed so tests can drive the schedule
// deterministically with a synchronous pool.
func (c *Coordinator) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	forced := c.drainForced()

	for key := range forced {
		c.dispatch(ctx, domain.RefreshTask{Key: key, Reason: domain.ReasonUserForced})
	}

	for _, key := range c.store.SnapshotKeys() {
		if _, wasForced := forced[key]; wasForced {
			continue
		}
		entry, ok := c.store.Get(key)
		if !ok {
			continue
		}
		reason, due := c.dueReason(entry)
		if !due {
			continue
		}
		c.dispatch(ctx, domain.RefreshTask{Key: key, Reason: reason})
	}
}

func (c *Coordinator) drainForced() map[domain.CacheKey]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.forced) == 0 {
		return nil
	}
	drained := c.forced
	c.forced = make(map[domain.CacheKey]struct{})
	return drained
}

// dueReason decides whether a key needs a scheduled refresh. Terminal
// failures (auth, not-found) are never re-queued here; only a user force
// retries those. Keys whose fetch is in flight lose the MarkPending race
// downstream, so an optimistic answer here is safe.
func (c *Coordinator) dueReason(entry ports.CacheEntry) (domain.RefreshReason, bool) {
	if entry.LastErr != nil && entry.LastErr.Kind.Terminal() {
		return "", false
	}
	if entry.Record == nil {
		return domain.ReasonInitialLoad, true
	}
	if entry.State == domain.StateStale {
		return domain.ReasonScheduledExpiry, true
	}
	return "", false
}

func (c *Coordinator) dispatch(ctx context.Context, task domain.RefreshTask) {
	if !c.store.MarkPending(task.Key) {
		// Lost the race: a fetch for this key is already in flight.
		c.logger.Debugf(ctx, "Skipping %s (%s): refresh already in flight", task.Key, task.Reason)
		return
	}
	if !c.pool.Submit(ctx, task) {
		// Queue full or shutting down; release the claim so the next
		// tick can retry.
		c.store.Commit(task.Key, nil, nil)
		c.logger.Warnf(ctx, "Dropped refresh task for %s: queue full", task.Key)
	}
}

// execute runs on a pool worker: one fetch, one commit. A cancelled context
// abandons the result without committing, leaving the store untouched.
func (c *Coordinator) execute(ctx context.Context, task domain.RefreshTask) {
	log := c.logger.WithFields(map[string]any{
		"key":    task.Key.String(),
		"reason": string(task.Reason),
	})
	log.Debugf(ctx, "Fetching")

	record, fetchErr := c.fetcher.Fetch(ctx, task.Key)

	if ctx.Err() != nil {
		log.Warnf(ctx, "Abandoning fetch result: %v", ctx.Err())
		return
	}

	if fetchErr != nil {
		if fetchErr.Kind.Terminal() {
			log.Errorf(ctx, fetchErr, "Fetch failed terminally; will not retry without user force")
		} else {
			log.Warnf(ctx, "Fetch failed (%s); will retry next tick", fetchErr.Kind)
		}
		c.store.Commit(task.Key, nil, fetchErr)
		return
	}

	c.store.Commit(task.Key, record, nil)
	log.Debugf(ctx, "Committed fresh record")
}
