package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	awsadapter "github.com/wonderdash/wonderdash/internal/adapters/platform/aws"
	"github.com/wonderdash/wonderdash/internal/config"
	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
	"github.com/wonderdash/wonderdash/internal/core/service"
	"github.com/wonderdash/wonderdash/internal/export"
)

// renderInterval is the draw cadence. Decoupled from the refresh interval:
// the view repaints often, the coordinator fetches on its own schedule.
const renderInterval = time.Second

// Application holds the wired components. The render loop and the refresh
// coordinator run as two independent tasks sharing only the cache store.
type Application struct {
	Config      *config.Config
	Logger      ports.Logger
	Provider    *awsadapter.Provider
	Store       ports.Store
	Coordinator *service.Coordinator
	Publisher   ports.Publisher
	Renderer    ports.Renderer
	Events      ports.EventSource
	Keys        service.KeyResolver
}

// Run pre-warms the default section, starts the coordinator, and drives the
// render/input loop until the user quits or the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	section := a.Config.Section()
	for _, key := range a.Keys.KeysFor(section) {
		a.Coordinator.Track(key, domain.ReasonInitialLoad)
	}

	g, childCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Coordinator.Run(childCtx)
	})

	g.Go(func() error {
		defer cancel()
		return a.renderLoop(childCtx, section)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Application) renderLoop(ctx context.Context, section domain.DashboardSection) error {
	events := a.Events.Events(ctx)

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	draw := func() error {
		snap := a.Publisher.BuildSnapshot(ctx, section)
		if err := a.Renderer.Render(ctx, snap); err != nil {
			a.Logger.Errorf(ctx, err, "Render failed")
			return err
		}
		return nil
	}

	if err := draw(); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := draw(); err != nil {
				return err
			}
		case event, ok := <-events:
			if !ok {
				return nil
			}
			switch event.Kind {
			case ports.EventQuit:
				a.Logger.Infof(ctx, "Exit requested")
				return nil
			case ports.EventForceRefresh:
				for _, key := range a.Keys.KeysFor(section) {
					a.Coordinator.Force(key)
				}
				a.Logger.Debugf(ctx, "User-forced refresh for section %s", section)
			case ports.EventSwitchSection:
				section = event.Section
				if err := draw(); err != nil {
					return err
				}
			case ports.EventExportCSV:
				a.exportCSV(ctx, section)
			case ports.EventCopyClipboard:
				a.copyClipboard(ctx, section)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// exportCSV writes one CSV file per view in the current section. Export
// failures are logged, not fatal; the dashboard keeps running.
func (a *Application) exportCSV(ctx context.Context, section domain.DashboardSection) {
	snap := a.Publisher.BuildSnapshot(ctx, section)
	for _, view := range snap.Views {
		bundle := export.FromView(view, snap.AsOf)
		path := export.DefaultFileName(bundle, "csv")
		if err := export.SaveCSV(path, bundle); err != nil {
			a.Logger.Errorf(ctx, err, "CSV export failed for %s", view.Key)
			continue
		}
		a.Logger.Infof(ctx, "Exported %s to %s", view.Key, path)
	}
}

// copyClipboard copies the first view that carries data; sections with no
// fetched records copy the first view's placeholder bundle instead.
func (a *Application) copyClipboard(ctx context.Context, section domain.DashboardSection) {
	snap := a.Publisher.BuildSnapshot(ctx, section)
	if len(snap.Views) == 0 {
		return
	}
	view := snap.Views[0]
	for _, candidate := range snap.Views {
		if candidate.Record != nil {
			view = candidate
			break
		}
	}
	bundle := export.FromView(view, snap.AsOf)
	if err := export.CopyToClipboard(bundle); err != nil {
		a.Logger.Errorf(ctx, err, "Clipboard copy failed for %s", view.Key)
		return
	}
	a.Logger.Infof(ctx, "Copied %s to clipboard", view.Key)
}
