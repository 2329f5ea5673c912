package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderdash/wonderdash/internal/cache"
	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type recordingScheduler struct {
	mu      sync.Mutex
	tracked []domain.CacheKey
	forced  []domain.CacheKey
}

func (s *recordingScheduler) Track(key domain.CacheKey, _ domain.RefreshReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked = append(s.tracked, key)
}

func (s *recordingScheduler) Force(key domain.CacheKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = append(s.forced, key)
}

func (s *recordingScheduler) trackedKeys() []domain.CacheKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CacheKey(nil), s.tracked...)
}

func identityRecord(fetchedAt time.Time) *domain.ServiceRecord {
	return &domain.ServiceRecord{
		Kind:      domain.KindIdentity,
		Payload:   domain.IdentityPayload{Account: "123456789012"},
		FetchedAt: fetchedAt,
	}
}

func TestPublisherUnknownKeysAreLazilyTracked(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(30*time.Second, clock)
	sched := &recordingScheduler{}
	pub := NewPublisher(store, sched, KeyResolver{}, nopLogger{})

	snap := pub.BuildSnapshot(context.Background(), domain.SectionIdentity)

	require.Len(t, snap.Views, 1)
	assert.Equal(t, domain.StatePending, snap.Views[0].State)
	assert.True(t, snap.Degraded)
	assert.Equal(t, []domain.CacheKey{domain.NewCacheKey(domain.KindIdentity, "")}, sched.trackedKeys())
}

func TestPublisherServesFreshEntry(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(30*time.Second, clock)
	sched := &recordingScheduler{}
	pub := NewPublisher(store, sched, KeyResolver{}, nopLogger{})

	key := domain.NewCacheKey(domain.KindIdentity, "")
	rec := identityRecord(clock.Now())
	require.True(t, store.MarkPending(key))
	store.Commit(key, rec, nil)

	snap := pub.BuildSnapshot(context.Background(), domain.SectionIdentity)

	require.Len(t, snap.Views, 1)
	view := snap.Views[0]
	assert.Equal(t, domain.StateFresh, view.State)
	assert.Same(t, rec, view.Record)
	assert.False(t, snap.Degraded)
	assert.Equal(t, rec.FetchedAt, snap.AsOf)
	assert.Empty(t, sched.trackedKeys(), "known keys need no tracking")
}

func TestPublisherAsOfIsNewestFetchTime(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(time.Hour, clock)
	sched := &recordingScheduler{}
	resolver := KeyResolver{DistributionID: "E123ABC"}
	pub := NewPublisher(store, sched, resolver, nopLogger{})

	older := clock.Now()
	for _, kind := range []domain.ServiceKind{domain.KindIdentity, domain.KindCompute, domain.KindStorage, domain.KindLogs} {
		key := resolver.resolve(kind).key
		require.True(t, store.MarkPending(key))
		store.Commit(key, &domain.ServiceRecord{Kind: kind, FetchedAt: older}, nil)
	}

	clock.Advance(10 * time.Second)
	newest := clock.Now()
	deliveryKey := resolver.resolve(domain.KindDelivery).key
	require.True(t, store.MarkPending(deliveryKey))
	store.Commit(deliveryKey, &domain.ServiceRecord{Kind: domain.KindDelivery, FetchedAt: newest}, nil)

	snap := pub.BuildSnapshot(context.Background(), domain.SectionHub)

	require.Len(t, snap.Views, 5)
	assert.Equal(t, newest, snap.AsOf)
	assert.False(t, snap.Degraded)
}

func TestPublisherFailedEntryDegradesSnapshot(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(30*time.Second, clock)
	sched := &recordingScheduler{}
	pub := NewPublisher(store, sched, KeyResolver{}, nopLogger{})

	key := domain.NewCacheKey(domain.KindIdentity, "")
	require.True(t, store.MarkPending(key))
	store.Commit(key, nil, domain.NewFetchError(domain.ErrorAuth, "sts:GetCallerIdentity call failed", nil))

	snap := pub.BuildSnapshot(context.Background(), domain.SectionIdentity)

	require.Len(t, snap.Views, 1)
	assert.Equal(t, domain.StateFailed, snap.Views[0].State)
	require.NotNil(t, snap.Views[0].Err)
	assert.True(t, snap.Degraded)
}

func TestPublisherStaleEntryWithErrorKeepsData(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(10*time.Second, clock)
	sched := &recordingScheduler{}
	pub := NewPublisher(store, sched, KeyResolver{}, nopLogger{})

	key := domain.NewCacheKey(domain.KindIdentity, "")
	rec := identityRecord(clock.Now())
	require.True(t, store.MarkPending(key))
	store.Commit(key, rec, nil)

	clock.Advance(time.Minute)
	require.True(t, store.MarkPending(key))
	store.Commit(key, nil, domain.NewFetchError(domain.ErrorTransient, "sts:GetCallerIdentity call failed", nil))

	snap := pub.BuildSnapshot(context.Background(), domain.SectionIdentity)

	require.Len(t, snap.Views, 1)
	view := snap.Views[0]
	assert.Equal(t, domain.StateStale, view.State)
	assert.Same(t, rec, view.Record, "stale-while-revalidate keeps serving last-good data")
	require.NotNil(t, view.Err)
	assert.False(t, snap.Degraded)
}

func TestPublisherUnconfiguredDeliveryShowsNotice(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewStore(30*time.Second, clock)
	sched := &recordingScheduler{}
	pub := NewPublisher(store, sched, KeyResolver{}, nopLogger{})

	snap := pub.BuildSnapshot(context.Background(), domain.SectionDelivery)

	require.Len(t, snap.Views, 1)
	view := snap.Views[0]
	assert.Equal(t, domain.StateFailed, view.State)
	assert.Contains(t, view.Notice, "distribution")
	assert.True(t, snap.Degraded)
	assert.Empty(t, sched.trackedKeys(), "unconfigured kinds are never tracked")
}
