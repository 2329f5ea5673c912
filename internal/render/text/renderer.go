package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

const RendererTypeText = "text"

type Config struct {
	NoColor bool
}

// Renderer draws a snapshot to the terminal. It is a pure consumer: the
// snapshot is its only input and it never reaches back into the cache.
type Renderer struct {
	config Config
	writer io.Writer
	logger ports.Logger

	headerColor  *color.Color
	freshColor   *color.Color
	staleColor   *color.Color
	pendingColor *color.Color
	failedColor  *color.Color
	dimColor     *color.Color
}

func NewRenderer(cfg Config, logger ports.Logger) (*Renderer, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	return &Renderer{
		config:       cfg,
		writer:       os.Stdout,
		logger:       logger,
		headerColor:  color.New(color.FgCyan, color.Bold),
		freshColor:   color.New(color.FgGreen),
		staleColor:   color.New(color.FgYellow),
		pendingColor: color.New(color.FgCyan),
		failedColor:  color.New(color.FgRed, color.Bold),
		dimColor:     color.New(color.Faint),
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Renderer) Render(ctx context.Context, snap domain.Snapshot) error {
	var b strings.Builder

	// Home the cursor and clear so each tick repaints in place.
	b.WriteString("\033[H\033[2J")

	r.renderHeader(&b, snap)
	for _, view := range snap.Views {
		r.renderView(&b, view)
	}
	r.renderFooter(&b, snap)

	_, err := io.WriteString(r.writer, b.String())
	return err
}

func (r *Renderer) renderHeader(b *strings.Builder, snap domain.Snapshot) {
	title := r.headerColor.Sprintf("WonderDash — %s", strings.ToUpper(string(snap.Section)))
	b.WriteString(title)
	if snap.Degraded {
		b.WriteString("  ")
		b.WriteString(r.failedColor.Sprint("[DEGRADED]"))
	}
	b.WriteString("\n")
	if !snap.AsOf.IsZero() {
		b.WriteString(r.dimColor.Sprintf("as of %s\n", snap.AsOf.UTC().Format("15:04:05 UTC")))
	} else {
		b.WriteString(r.dimColor.Sprint("waiting for first data...\n"))
	}
	b.WriteString("\n")
}

func (r *Renderer) stateBadge(state domain.EntryState) string {
	switch state {
	case domain.StateFresh:
		return r.freshColor.Sprint("[fresh]")
	case domain.StateStale:
		return r.staleColor.Sprint("[stale]")
	case domain.StatePending:
		return r.pendingColor.Sprint("[loading]")
	default:
		return r.failedColor.Sprint("[failed]")
	}
}

func (r *Renderer) renderView(b *strings.Builder, view domain.SectionView) {
	fmt.Fprintf(b, "%s %s\n", r.headerColor.Sprintf("%s", view.Key.Kind), r.stateBadge(view.State))

	if view.Notice != "" {
		fmt.Fprintf(b, "  %s\n\n", r.staleColor.Sprint(view.Notice))
		return
	}
	if view.Err != nil && view.Record == nil {
		fmt.Fprintf(b, "  %s\n\n", r.failedColor.Sprint(view.Err.Message))
		return
	}
	if view.Record == nil {
		fmt.Fprintf(b, "  %s\n\n", r.dimColor.Sprint("loading..."))
		return
	}

	tw := tabwriter.NewWriter(b, 2, 4, 2, ' ', 0)
	switch payload := view.Record.Payload.(type) {
	case domain.IdentityPayload:
		fmt.Fprintf(tw, "  Account\t%s\n", payload.Account)
		fmt.Fprintf(tw, "  ARN\t%s\n", payload.ARN)
		fmt.Fprintf(tw, "  User ID\t%s\n", payload.UserID)
	case domain.ComputePayload:
		r.writeCompute(tw, payload)
	case domain.StoragePayload:
		r.writeStorage(tw, payload)
	case domain.DeliveryPayload:
		r.writeDelivery(tw, payload)
	case domain.LogsPayload:
		r.writeLogs(tw, payload)
	}
	tw.Flush()

	if view.Err != nil && view.Record != nil {
		fmt.Fprintf(b, "  %s\n", r.staleColor.Sprintf("last refresh failed: %s", view.Err.Message))
	}
	b.WriteString("\n")
}

func (r *Renderer) writeCompute(tw *tabwriter.Writer, payload domain.ComputePayload) {
	if len(payload.Instances) == 0 {
		fmt.Fprintf(tw, "  No instances\n")
		return
	}
	fmt.Fprintf(tw, "  Instance\tState\tName\tType\tAZ\n")
	for _, inst := range payload.Instances {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			inst.InstanceID, inst.State, inst.Name, inst.InstanceType, inst.AvailabilityZone)
	}
}

func (r *Renderer) writeStorage(tw *tabwriter.Writer, payload domain.StoragePayload) {
	if len(payload.Buckets) == 0 {
		fmt.Fprintf(tw, "  No buckets found\n")
		return
	}
	fmt.Fprintf(tw, "  Bucket\tCreated\n")
	for _, bucket := range payload.Buckets {
		created := "-"
		if !bucket.CreatedAt.IsZero() {
			created = bucket.CreatedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "  %s\t%s\n", bucket.Name, created)
	}
}

const sparkBlocks = "▁▂▃▄▅▆▇█"

func (r *Renderer) writeDelivery(tw *tabwriter.Writer, payload domain.DeliveryPayload) {
	health := payload.Health()
	fmt.Fprintf(tw, "  Distribution\t%s\n", payload.DistributionID)
	fmt.Fprintf(tw, "  Health\t%s (%s)\n", r.healthBadge(health.Level), health.Detail)

	if len(payload.Requests) > 0 {
		latest := payload.Requests[len(payload.Requests)-1]
		var total float64
		for _, sample := range payload.Requests {
			total += sample.Value
		}
		fmt.Fprintf(tw, "  Requests (latest period)\t%.0f\n", latest.Value)
		fmt.Fprintf(tw, "  Requests (window total)\t%.0f\n", total)
		fmt.Fprintf(tw, "  Trend\t%s\n", sparkline(payload.Requests))
	} else {
		fmt.Fprintf(tw, "  Requests\tno datapoints in window\n")
	}

	for _, id := range []string{
		domain.MetricAvailability, domain.MetricTotalErrors,
		domain.MetricOriginLatency, domain.MetricCacheHitRate,
		domain.MetricBytesDownloaded, domain.MetricBytesUploaded,
	} {
		metric, ok := payload.Scalars[id]
		if !ok || len(metric.Values) == 0 {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\n", metric.Label, formatMetric(metric))
	}
}

func (r *Renderer) writeLogs(tw *tabwriter.Writer, payload domain.LogsPayload) {
	if len(payload.Groups) == 0 {
		fmt.Fprintf(tw, "  No log groups found\n")
		return
	}
	fmt.Fprintf(tw, "  Group\tRetention\tStored\n")
	for _, group := range payload.Groups {
		retention := "-"
		if group.RetentionDays > 0 {
			retention = fmt.Sprintf("%dd", group.RetentionDays)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", group.Name, retention, domain.FormatBytes(float64(group.StoredBytes)))
	}
}

func (r *Renderer) healthBadge(level domain.HealthLevel) string {
	switch level {
	case domain.HealthHealthy:
		return r.freshColor.Sprint("OK")
	case domain.HealthWatch:
		return r.staleColor.Sprint("WATCH")
	case domain.HealthDegraded:
		return r.failedColor.Sprint("CRIT")
	default:
		return r.pendingColor.Sprint("MONITORING")
	}
}

func (r *Renderer) renderFooter(b *strings.Builder, snap domain.Snapshot) {
	b.WriteString(r.dimColor.Sprint("[q] quit  [r] refresh  [e] csv  [y] copy  [1] hub [2] identity [3] compute [4] storage [5] delivery [6] logs\n"))
}

func formatMetric(metric domain.ScalarMetric) string {
	switch metric.Unit {
	case "Bytes":
		return domain.FormatBytes(metric.Latest())
	case "Percent":
		return fmt.Sprintf("%.2f%%", metric.Latest())
	case "Milliseconds":
		return fmt.Sprintf("%.0f ms", metric.Latest())
	default:
		return fmt.Sprintf("%.2f", metric.Latest())
	}
}

// sparkline renders the tail of the request series as block characters,
// scaled to the window maximum.
func sparkline(samples []domain.MetricSample) string {
	tail := samples
	if len(tail) > 30 {
		tail = tail[len(tail)-30:]
	}
	var max float64
	for _, sample := range tail {
		if sample.Value > max {
			max = sample.Value
		}
	}
	if max == 0 {
		max = 1
	}
	blocks := []rune(sparkBlocks)
	var b strings.Builder
	for _, sample := range tail {
		idx := int(sample.Value / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}
