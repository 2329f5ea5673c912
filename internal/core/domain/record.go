package domain

import "time"

// Payload is the normalized data carried by a ServiceRecord. Each service
// kind has exactly one concrete payload type so the fetcher's translation
// stays exhaustive and each kind's fields stay explicit.
type Payload interface {
	PayloadKind() ServiceKind
}

// ServiceRecord is one normalized unit of remote data. Records are immutable
// once constructed; a refresh produces a new record rather than mutating one
// a reader may be holding.
type ServiceRecord struct {
	Kind      ServiceKind
	Payload   Payload
	FetchedAt time.Time
}

type IdentityPayload struct {
	Account string
	ARN     string
	UserID  string
}

func (IdentityPayload) PayloadKind() ServiceKind { return KindIdentity }

type ComputeInstance struct {
	InstanceID       string
	State            string
	Name             string
	InstanceType     string
	AvailabilityZone string
	LaunchedAt       time.Time
}

type ComputePayload struct {
	Instances     []ComputeInstance
	CountsByState map[string]int
}

func (ComputePayload) PayloadKind() ServiceKind { return KindCompute }

type StorageBucket struct {
	Name      string
	CreatedAt time.Time
}

type StoragePayload struct {
	Buckets []StorageBucket
}

func (StoragePayload) PayloadKind() ServiceKind { return KindStorage }

type LogGroup struct {
	Name          string
	RetentionDays int32
	StoredBytes   int64
	CreatedAt     time.Time
}

type LogsPayload struct {
	Groups []LogGroup
}

func (LogsPayload) PayloadKind() ServiceKind { return KindLogs }

// MetricSample is one datapoint of the delivery request series.
type MetricSample struct {
	Timestamp time.Time
	Value     float64
}

// ScalarMetric is a supporting delivery metric (rates, byte counts, latency)
// over the configured window.
type ScalarMetric struct {
	Label      string
	Unit       string
	Values     []float64
	Timestamps []time.Time
}

func (m ScalarMetric) Latest() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return m.Values[len(m.Values)-1]
}

func (m ScalarMetric) Total() float64 {
	var sum float64
	for _, v := range m.Values {
		sum += v
	}
	return sum
}

func (m ScalarMetric) Average() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return m.Total() / float64(len(m.Values))
}

const (
	MetricRequests        = "requests"
	MetricBytesDownloaded = "bytes_downloaded"
	MetricBytesUploaded   = "bytes_uploaded"
	MetricErrors4xx       = "errors_4xx"
	MetricErrors5xx       = "errors_5xx"
	MetricTotalErrors     = "total_errors"
	MetricOriginLatency   = "origin_latency"
	MetricAvailability    = "availability"
	MetricCacheHitRate    = "cache_hit"
)

type DeliveryPayload struct {
	DistributionID string
	Requests       []MetricSample
	Scalars        map[string]ScalarMetric
	StatusCode     string
	Messages       []string
}

func (DeliveryPayload) PayloadKind() ServiceKind { return KindDelivery }

type HealthLevel int

const (
	HealthMonitoring HealthLevel = iota
	HealthHealthy
	HealthWatch
	HealthDegraded
)

func (l HealthLevel) String() string {
	switch l {
	case HealthHealthy:
		return "Healthy"
	case HealthWatch:
		return "Watch"
	case HealthDegraded:
		return "Degraded"
	default:
		return "Monitoring"
	}
}

type HealthStatus struct {
	Level  HealthLevel
	Detail string
}

// Health derives a coarse distribution health from the latest availability,
// total error rate and origin latency values. Thresholds: availability below
// 99.5%/98% and error rate above 1%/5% and latency above 250ms/400ms mark
// watch/degraded respectively.
func (p DeliveryPayload) Health() HealthStatus {
	if len(p.Scalars) == 0 && len(p.Requests) == 0 {
		return HealthStatus{Level: HealthMonitoring, Detail: "Waiting for metrics"}
	}

	severity := HealthHealthy
	var notes []string

	bump := func(level HealthLevel, note string) {
		if level > severity {
			severity = level
		}
		notes = append(notes, note)
	}

	if m, ok := p.Scalars[MetricAvailability]; ok && len(m.Values) > 0 {
		latest := m.Latest()
		if latest < 98.0 {
			bump(HealthDegraded, fmtPercent("Availability", latest))
		} else if latest < 99.5 {
			bump(HealthWatch, fmtPercent("Availability", latest))
		}
	}

	if m, ok := p.Scalars[MetricTotalErrors]; ok && len(m.Values) > 0 {
		latest := m.Latest()
		if latest > 5 {
			bump(HealthDegraded, fmtPercent("Errors", latest))
		} else if latest > 1 {
			bump(HealthWatch, fmtPercent("Errors", latest))
		}
	}

	if m, ok := p.Scalars[MetricOriginLatency]; ok && len(m.Values) > 0 {
		latest := m.Latest()
		if latest > 400 {
			bump(HealthDegraded, fmtMillis("Latency", latest))
		} else if latest > 250 {
			bump(HealthWatch, fmtMillis("Latency", latest))
		}
	}

	detail := "All metrics nominal"
	if len(notes) > 0 {
		detail = joinNotes(notes)
	}
	return HealthStatus{Level: severity, Detail: detail}
}
