package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

func TestWorkerPoolCapsConcurrency(t *testing.T) {
	const workers = 2
	const tasks = 10

	pool := NewWorkerPool(workers, tasks)
	defer pool.Close()

	var inFlight, peak int64
	var wg sync.WaitGroup
	wg.Add(tasks)

	pool.Start(context.Background(), func(ctx context.Context, task domain.RefreshTask) {
		defer wg.Done()
		n := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
	})

	for i := 0; i < tasks; i++ {
		require.True(t, pool.Submit(context.Background(), domain.RefreshTask{
			Key: domain.NewCacheKey(domain.KindCompute, ""),
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(workers))
}

func TestWorkerPoolSubmitFailsWhenQueueFull(t *testing.T) {
	// Never started: nothing drains the queue.
	pool := NewWorkerPool(2, 2)

	task := domain.RefreshTask{Key: domain.NewCacheKey(domain.KindIdentity, "")}
	assert.True(t, pool.Submit(context.Background(), task))
	assert.True(t, pool.Submit(context.Background(), task))
	assert.False(t, pool.Submit(context.Background(), task), "a full queue must not block the scheduling loop")
}

func TestWorkerPoolSubmitFailsAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancelled context may still win the non-blocking send race when the
	// queue has room, so fill the queue first.
	pool.Submit(context.Background(), domain.RefreshTask{})
	assert.False(t, pool.Submit(ctx, domain.RefreshTask{}))
}

func TestWorkerPoolCloseIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Start(context.Background(), func(context.Context, domain.RefreshTask) {})
	pool.Close()
	assert.NotPanics(t, func() { pool.Close() })
}

func TestSyncPoolRunsInline(t *testing.T) {
	pool := NewSyncPool()

	var ran []domain.CacheKey
	pool.Start(context.Background(), func(_ context.Context, task domain.RefreshTask) {
		ran = append(ran, task.Key)
	})

	key := domain.NewCacheKey(domain.KindStorage, "")
	require.True(t, pool.Submit(context.Background(), domain.RefreshTask{Key: key}))
	assert.Equal(t, []domain.CacheKey{key}, ran)
}

func TestSyncPoolRejectsBeforeStartAndAfterCancel(t *testing.T) {
	pool := NewSyncPool()
	assert.False(t, pool.Submit(context.Background(), domain.RefreshTask{}))

	pool.Start(context.Background(), func(context.Context, domain.RefreshTask) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, pool.Submit(ctx, domain.RefreshTask{}))
}
