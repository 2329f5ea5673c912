package ports

import (
	"context"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

// Fetcher performs exactly one outbound call per invocation and translates
// the provider response into a normalized record. It never retries; retry
// policy belongs to the refresh coordinator. A nil FetchError means success.
type Fetcher interface {
	Fetch(ctx context.Context, key domain.CacheKey) (*domain.ServiceRecord, *domain.FetchError)
}

// Store is the shared cache the coordinator writes and the publisher reads.
// Get, MarkPending and Commit are the only synchronization points between
// the scheduling loop and the render loop and must be safe under concurrent
// use. Get never triggers network I/O.
type Store interface {
	Get(key domain.CacheKey) (CacheEntry, bool)
	Track(key domain.CacheKey)
	MarkPending(key domain.CacheKey) bool
	Commit(key domain.CacheKey, record *domain.ServiceRecord, fetchErr *domain.FetchError)
	SnapshotKeys(kinds ...domain.ServiceKind) []domain.CacheKey
}

// CacheEntry is the read-side view of one tracked key: the last good record
// (if any), the effective state, and the most recent fetch error.
type CacheEntry struct {
	Key     domain.CacheKey
	State   domain.EntryState
	Record  *domain.ServiceRecord
	LastErr *domain.FetchError
}
