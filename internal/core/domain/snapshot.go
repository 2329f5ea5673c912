package domain

import "time"

// EntryState is the lifecycle of a cache entry as seen by readers.
type EntryState string

const (
	StateFresh   EntryState = "Fresh"
	StateStale   EntryState = "Stale"
	StatePending EntryState = "Pending"
	StateFailed  EntryState = "Failed"
)

// RefreshReason records why a refresh task was queued.
type RefreshReason string

const (
	ReasonScheduledExpiry RefreshReason = "ScheduledExpiry"
	ReasonUserForced      RefreshReason = "UserForced"
	ReasonInitialLoad     RefreshReason = "InitialLoad"
)

// RefreshTask is one unit of refresh work dispatched by the coordinator.
type RefreshTask struct {
	Key    CacheKey
	Reason RefreshReason
}

// SectionView is the best-known data for one key inside a snapshot. Record
// is the last good record, nil if none was ever fetched. Err is the most
// recent fetch error, set alongside a stale Record when the latest attempt
// failed. Notice carries a configuration hint (e.g. no distribution id set)
// for keys that cannot be tracked at all.
type SectionView struct {
	Key    CacheKey
	State  EntryState
	Record *ServiceRecord
	Err    *FetchError
	Notice string
}

func (v SectionView) HasData() bool {
	return v.Record != nil
}

// Snapshot is the immutable point-in-time view a renderer consumes on each
// draw tick. AsOf is the newest FetchedAt among included entries; Degraded
// is set when any included key is failed, pending on first load, or
// unconfigured.
type Snapshot struct {
	Section  DashboardSection
	AsOf     time.Time
	Degraded bool
	Views    []SectionView
}

// View returns the section view for the given kind, if present.
func (s Snapshot) View(kind ServiceKind) (SectionView, bool) {
	for _, v := range s.Views {
		if v.Key.Kind == kind {
			return v, true
		}
	}
	return SectionView{}, false
}
