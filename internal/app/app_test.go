package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderdash/wonderdash/internal/cache"
	"github.com/wonderdash/wonderdash/internal/config"
	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
	"github.com/wonderdash/wonderdash/internal/core/service"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any)        {}
func (nopLogger) Infof(context.Context, string, ...any)         {}
func (nopLogger) Warnf(context.Context, string, ...any)         {}
func (nopLogger) Errorf(context.Context, error, string, ...any) {}
func (nopLogger) WithFields(map[string]any) ports.Logger        { return nopLogger{} }

type staticFetcher struct{ fetches atomic.Int64 }

func (f *staticFetcher) Fetch(_ context.Context, key domain.CacheKey) (*domain.ServiceRecord, *domain.FetchError) {
	f.fetches.Add(1)
	return &domain.ServiceRecord{
		Kind:      key.Kind,
		Payload:   domain.IdentityPayload{Account: "123456789012"},
		FetchedAt: time.Now(),
	}, nil
}

type countingRenderer struct{ renders atomic.Int64 }

func (r *countingRenderer) Render(context.Context, domain.Snapshot) error {
	r.renders.Add(1)
	return nil
}

type channelEvents struct{ ch chan ports.UIEvent }

func (e *channelEvents) Events(context.Context) <-chan ports.UIEvent { return e.ch }

func newTestApplication(t *testing.T) (*Application, *staticFetcher, *countingRenderer, *channelEvents) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Settings.DefaultSection = string(domain.SectionIdentity)

	fetcher := &staticFetcher{}
	store := cache.NewStore(cfg.CacheTTL(), ports.SystemClock{})
	coord := service.NewCoordinator(store, fetcher, nopLogger{}, cfg.Settings.ConcurrencyBudget,
		service.WithInterval(10*time.Millisecond))
	keys := service.KeyResolver{}
	pub := service.NewPublisher(store, coord, keys, nopLogger{})
	renderer := &countingRenderer{}
	events := &channelEvents{ch: make(chan ports.UIEvent, 1)}

	return &Application{
		Config:      cfg,
		Logger:      nopLogger{},
		Store:       store,
		Coordinator: coord,
		Publisher:   pub,
		Renderer:    renderer,
		Events:      events,
		Keys:        keys,
	}, fetcher, renderer, events
}

func TestApplicationRunQuitsOnEvent(t *testing.T) {
	app, fetcher, renderer, events := newTestApplication(t)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	// Let the coordinator complete the initial load, then quit.
	time.Sleep(50 * time.Millisecond)
	events.ch <- ports.UIEvent{Kind: ports.EventQuit}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop on quit event")
	}

	assert.GreaterOrEqual(t, fetcher.fetches.Load(), int64(1), "default section keys are pre-warmed")
	assert.GreaterOrEqual(t, renderer.renders.Load(), int64(1), "at least the initial draw happened")
}

func TestApplicationRunStopsWhenEventsClose(t *testing.T) {
	app, _, _, events := newTestApplication(t)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	close(events.ch)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop when input ended")
	}
}

func TestApplicationRunHonorsContextCancel(t *testing.T) {
	app, _, _, _ := newTestApplication(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop on context cancel")
	}
}
