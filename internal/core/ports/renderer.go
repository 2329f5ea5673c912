package ports

import (
	"context"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

// Renderer consumes a snapshot on each draw tick. It must not reach into
// the cache; the snapshot is its whole world.
type Renderer interface {
	Render(ctx context.Context, snap domain.Snapshot) error
}

type EventKind int

const (
	EventQuit EventKind = iota
	EventForceRefresh
	EventSwitchSection
	EventExportCSV
	EventCopyClipboard
)

// UIEvent is a keypress translated by the input reader: quit, force refresh
// of the active section, a section switch, or an export of the current
// view.
type UIEvent struct {
	Kind    EventKind
	Section domain.DashboardSection
}

// EventSource supplies user events to the app loop. The channel closes when
// input ends.
type EventSource interface {
	Events(ctx context.Context) <-chan UIEvent
}

// Scheduler is the publisher's and app loop's view of the refresh
// coordinator: lazy tracking of newly needed keys and user-forced refresh.
type Scheduler interface {
	Track(key domain.CacheKey, reason domain.RefreshReason)
	Force(key domain.CacheKey)
}

// Publisher assembles an immutable snapshot for one section. Must be cheap
// and non-blocking; it runs on every render tick.
type Publisher interface {
	BuildSnapshot(ctx context.Context, section domain.DashboardSection) domain.Snapshot
}
