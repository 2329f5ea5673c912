package service

import (
	"context"
	"time"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

// Publisher assembles the immutable aggregate view the renderer consumes on
// each draw tick. It reads through the store's Get only; it never mutates
// cache state and never blocks on network I/O. Keys a section needs but the
// store has never seen are registered with the scheduler so they start
// loading in the background.
type Publisher struct {
	store     ports.Store
	scheduler ports.Scheduler
	keys      KeyResolver
	logger    ports.Logger
}

func NewPublisher(store ports.Store, scheduler ports.Scheduler, keys KeyResolver, logger ports.Logger) *Publisher {
	return &Publisher{
		store:     store,
		scheduler: scheduler,
		keys:      keys,
		logger:    logger,
	}
}

func (p *Publisher) BuildSnapshot(ctx context.Context, section domain.DashboardSection) domain.Snapshot {
	snap := domain.Snapshot{Section: section}

	var asOf time.Time
	for _, kind := range section.Kinds() {
		rk := p.keys.resolve(kind)
		if rk.notice != "" {
			snap.Views = append(snap.Views, domain.SectionView{
				Key:    rk.key,
				State:  domain.StateFailed,
				Notice: rk.notice,
			})
			snap.Degraded = true
			continue
		}

		entry, ok := p.store.Get(rk.key)
		if !ok {
			// Lazy tracking: first section visit starts the background
			// load; the view shows a loading placeholder meanwhile.
			p.scheduler.Track(rk.key, domain.ReasonInitialLoad)
			p.logger.Debugf(ctx, "Tracking new key %s for section %s", rk.key, section)
			snap.Views = append(snap.Views, domain.SectionView{
				Key:   rk.key,
				State: domain.StatePending,
			})
			snap.Degraded = true
			continue
		}

		view := domain.SectionView{
			Key:    rk.key,
			State:  entry.State,
			Record: entry.Record,
			Err:    entry.LastErr,
		}
		snap.Views = append(snap.Views, view)

		if entry.Record == nil {
			snap.Degraded = true
		} else if entry.Record.FetchedAt.After(asOf) {
			asOf = entry.Record.FetchedAt
		}
		if entry.State == domain.StateFailed {
			snap.Degraded = true
		}
	}

	snap.AsOf = asOf
	return snap
}
