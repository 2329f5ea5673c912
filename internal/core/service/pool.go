package service

import (
	"context"
	"sync"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

// TaskPool executes refresh tasks under a concurrency budget. The
// coordinator only ever submits; how tasks run (fixed workers in
// production, inline in tests) is the pool's business.
type TaskPool interface {
	Start(ctx context.Context, run func(ctx context.Context, task domain.RefreshTask))
	Submit(ctx context.Context, task domain.RefreshTask) bool
	Close()
}

// WorkerPool is a task queue drained by a fixed number of workers. The
// fixed worker count is what caps simultaneous outbound calls regardless of
// how many keys come due in one tick.
type WorkerPool struct {
	workers int
	tasks   chan domain.RefreshTask
	wg      sync.WaitGroup
	once    sync.Once
}

func NewWorkerPool(workers int, queueDepth int) *WorkerPool {
	if workers <= 0 {
		workers = 2
	}
	if queueDepth < workers {
		queueDepth = workers * 8
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan domain.RefreshTask, queueDepth),
	}
}

func (p *WorkerPool) Start(ctx context.Context, run func(ctx context.Context, task domain.RefreshTask)) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case task, ok := <-p.tasks:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					run(ctx, task)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Submit enqueues a task without blocking the scheduling loop. It reports
// false when the queue is full or the context is done; the caller treats
// that as "try again next tick".
func (p *WorkerPool) Submit(ctx context.Context, task domain.RefreshTask) bool {
	select {
	case p.tasks <- task:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

func (p *WorkerPool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

// SyncPool runs every submitted task inline. It exists so coordinator
// behavior is reproducible in unit tests without goroutine scheduling.
type SyncPool struct {
	run func(ctx context.Context, task domain.RefreshTask)
}

func NewSyncPool() *SyncPool { return &SyncPool{} }

func (p *SyncPool) Start(_ context.Context, run func(ctx context.Context, task domain.RefreshTask)) {
	p.run = run
}

func (p *SyncPool) Submit(ctx context.Context, task domain.RefreshTask) bool {
	if p.run == nil || ctx.Err() != nil {
		return false
	}
	p.run(ctx, task)
	return true
}

func (p *SyncPool) Close() {}
