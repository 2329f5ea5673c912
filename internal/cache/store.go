package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

type entry struct {
	record  *domain.ServiceRecord
	lastErr *domain.FetchError
	pending bool
	ttl     time.Duration
}

// Store is the keyed TTL cache shared by the refresh coordinator (writer)
// and the snapshot publisher (reader). Staleness is computed on read against
// the injected clock; the store owns no timers. Entries are created lazily
// on first Track/MarkPending and live until the process exits.
type Store struct {
	mu      sync.RWMutex
	entries map[domain.CacheKey]*entry
	ttl     time.Duration
	clock   ports.Clock
}

func NewStore(ttl time.Duration, clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Store{
		entries: make(map[domain.CacheKey]*entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get is a non-blocking read of the current state. It never triggers a
// fetch. The second return is false for keys the store has never seen.
func (s *Store) Get(key domain.CacheKey) (ports.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return ports.CacheEntry{}, false
	}
	return ports.CacheEntry{
		Key:     key,
		State:   s.stateOf(e),
		Record:  e.record,
		LastErr: e.lastErr,
	}, true
}

// stateOf computes the effective state under the lock. A pending refresh
// reports Pending even when a prior record exists; readers still get that
// record through the same CacheEntry. A record whose latest refresh failed
// reports Stale regardless of age, which keeps it due for the scheduler.
func (s *Store) stateOf(e *entry) domain.EntryState {
	if e.pending {
		return domain.StatePending
	}
	if e.record != nil {
		if e.lastErr == nil && s.clock.Now().Sub(e.record.FetchedAt) < e.ttl {
			return domain.StateFresh
		}
		return domain.StateStale
	}
	if e.lastErr != nil {
		return domain.StateFailed
	}
	// Tracked but never fetched; surfaces as Pending so views show a
	// loading indicator rather than an error.
	return domain.StatePending
}

// Track registers a key without fetching it, so the coordinator picks it up
// on its next tick.
func (s *Store) Track(key domain.CacheKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		s.entries[key] = &entry{ttl: s.ttl}
	}
}

// MarkPending atomically claims the right to fetch the key. Exactly one
// caller wins until the matching Commit; this is what guarantees at most
// one in-flight fetch per key.
func (s *Store) MarkPending(key domain.CacheKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{ttl: s.ttl}
		s.entries[key] = e
	}
	if e.pending {
		return false
	}
	e.pending = true
	return true
}

// Commit stores the outcome of a fetch and releases the pending claim. On
// failure a prior record is kept untouched so readers continue to see
// last-good data; the error is recorded for diagnostics. A success replaces
// both the record and any previous error.
func (s *Store) Commit(key domain.CacheKey, record *domain.ServiceRecord, fetchErr *domain.FetchError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		// Commit for a key nobody marked pending; ignore rather than
		// resurrect state for an untracked key.
		return
	}
	e.pending = false
	if fetchErr != nil {
		e.lastErr = fetchErr
		return
	}
	if record == nil {
		// Released claim with nothing fetched (abandoned dispatch);
		// prior record and error stand.
		return
	}
	e.record = record
	e.lastErr = nil
}

// SnapshotKeys returns the tracked keys, optionally filtered by kind,
// sorted for deterministic scheduling.
func (s *Store) SnapshotKeys(kinds ...domain.ServiceKind) []domain.CacheKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filter map[domain.ServiceKind]struct{}
	if len(kinds) > 0 {
		filter = make(map[domain.ServiceKind]struct{}, len(kinds))
		for _, k := range kinds {
			filter[k] = struct{}{}
		}
	}

	keys := make([]domain.CacheKey, 0, len(s.entries))
	for key := range s.entries {
		if filter != nil {
			if _, ok := filter[key.Kind]; !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Discriminator < keys[j].Discriminator
	})
	return keys
}
