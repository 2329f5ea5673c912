package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

// Bundle is a flat table extracted from a snapshot, ready for CSV, JSON or
// clipboard export. Export is a read-only consumer of snapshots; it never
// touches the cache.
type Bundle struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	AsOf    time.Time  `json:"as_of"`
}

// FromView converts one section view into an export bundle. Views without
// data produce an empty-but-titled bundle so exports never fail outright.
func FromView(view domain.SectionView, asOf time.Time) Bundle {
	if view.Record == nil {
		return Bundle{
			Title:   fmt.Sprintf("%s (no data)", view.Key.Kind),
			Headers: []string{"Status"},
			Rows:    [][]string{{string(view.State)}},
			AsOf:    asOf,
		}
	}

	switch payload := view.Record.Payload.(type) {
	case domain.IdentityPayload:
		return Bundle{
			Title:   "STS Identity",
			Headers: []string{"Field", "Value"},
			Rows: [][]string{
				{"Account", payload.Account},
				{"ARN", payload.ARN},
				{"User ID", payload.UserID},
			},
			AsOf: asOf,
		}
	case domain.ComputePayload:
		rows := make([][]string, 0, len(payload.Instances))
		for _, inst := range payload.Instances {
			rows = append(rows, []string{
				inst.InstanceID,
				inst.State,
				inst.Name,
				inst.InstanceType,
				inst.AvailabilityZone,
				formatTime(inst.LaunchedAt),
			})
		}
		return Bundle{
			Title:   "EC2 Instances",
			Headers: []string{"Instance", "State", "Name", "Type", "AZ", "Launched"},
			Rows:    rows,
			AsOf:    asOf,
		}
	case domain.StoragePayload:
		rows := make([][]string, 0, len(payload.Buckets))
		for _, bucket := range payload.Buckets {
			rows = append(rows, []string{bucket.Name, formatTime(bucket.CreatedAt)})
		}
		return Bundle{
			Title:   "S3 Buckets",
			Headers: []string{"Bucket", "Created"},
			Rows:    rows,
			AsOf:    asOf,
		}
	case domain.DeliveryPayload:
		rows := make([][]string, 0, len(payload.Scalars)+1)
		var total float64
		for _, sample := range payload.Requests {
			total += sample.Value
		}
		rows = append(rows, []string{"Requests (window total)", strconv.FormatFloat(total, 'f', 0, 64), "Count"})
		for _, id := range scalarOrder {
			metric, ok := payload.Scalars[id]
			if !ok {
				continue
			}
			rows = append(rows, []string{
				metric.Label,
				strconv.FormatFloat(metric.Latest(), 'f', 2, 64),
				metric.Unit,
			})
		}
		return Bundle{
			Title:   fmt.Sprintf("CloudFront %s", payload.DistributionID),
			Headers: []string{"Metric", "Latest", "Unit"},
			Rows:    rows,
			AsOf:    asOf,
		}
	case domain.LogsPayload:
		rows := make([][]string, 0, len(payload.Groups))
		for _, group := range payload.Groups {
			retention := "-"
			if group.RetentionDays > 0 {
				retention = fmt.Sprintf("%dd", group.RetentionDays)
			}
			rows = append(rows, []string{
				group.Name,
				retention,
				domain.FormatBytes(float64(group.StoredBytes)),
				formatTime(group.CreatedAt),
			})
		}
		return Bundle{
			Title:   "Log Groups",
			Headers: []string{"Group", "Retention", "Stored", "Created"},
			Rows:    rows,
			AsOf:    asOf,
		}
	}

	return Bundle{
		Title:   string(view.Key.Kind),
		Headers: []string{"Status"},
		Rows:    [][]string{{string(view.State)}},
		AsOf:    asOf,
	}
}

var scalarOrder = []string{
	domain.MetricBytesDownloaded,
	domain.MetricBytesUploaded,
	domain.MetricAvailability,
	domain.MetricTotalErrors,
	domain.MetricErrors4xx,
	domain.MetricErrors5xx,
	domain.MetricOriginLatency,
	domain.MetricCacheHitRate,
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
