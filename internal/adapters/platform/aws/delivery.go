package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

type metricSpec struct {
	metricName string
	stat       string
	unit       string
	label      string
}

// metricSpecs maps query ids onto the CloudFront distribution metrics the
// delivery section shows. The requests series feeds the history chart; the
// rest become scalar metrics.
var metricSpecs = map[string]metricSpec{
	domain.MetricRequests:        {metricName: "Requests", stat: "Sum", unit: "Count", label: "Requests"},
	domain.MetricBytesDownloaded: {metricName: "BytesDownloaded", stat: "Sum", unit: "Bytes", label: "Bytes Downloaded"},
	domain.MetricBytesUploaded:   {metricName: "BytesUploaded", stat: "Sum", unit: "Bytes", label: "Bytes Uploaded"},
	domain.MetricErrors4xx:       {metricName: "4xxErrorRate", stat: "Average", unit: "Percent", label: "4xx Error Rate"},
	domain.MetricErrors5xx:       {metricName: "5xxErrorRate", stat: "Average", unit: "Percent", label: "5xx Error Rate"},
	domain.MetricTotalErrors:     {metricName: "TotalErrorRate", stat: "Average", unit: "Percent", label: "Total Error Rate"},
	domain.MetricOriginLatency:   {metricName: "OriginLatency", stat: "Average", unit: "Milliseconds", label: "Origin Latency"},
	domain.MetricAvailability:    {metricName: "Availability", stat: "Average", unit: "Percent", label: "Availability"},
	domain.MetricCacheHitRate:    {metricName: "CacheHitRate", stat: "Average", unit: "Percent", label: "Cache Hit Rate"},
}

type deliveryHandler struct {
	client CloudWatchClient
	clock  ports.Clock
	period time.Duration
	window time.Duration
}

func newDeliveryHandler(cfg aws.Config, clock ports.Clock, period, window time.Duration) *deliveryHandler {
	return &deliveryHandler{
		client: cloudwatch.NewFromConfig(cfg),
		clock:  clock,
		period: period,
		window: window,
	}
}

func (h *deliveryHandler) Kind() domain.ServiceKind {
	return domain.KindDelivery
}

// Fetch pulls the full metric set for one distribution in a single
// GetMetricData call. The window ends one period in the past because
// CloudFront metrics trail real time by a few minutes.
func (h *deliveryHandler) Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	distributionID := key.Discriminator
	if distributionID == "" {
		return nil, domain.NewFetchError(domain.ErrorPermanentNotFound, "no distribution id configured for delivery metrics", nil)
	}

	end := h.clock.Now().UTC().Add(-h.period)
	start := end.Add(-h.window)

	queries := make([]cwtypes.MetricDataQuery, 0, len(metricSpecs))
	for id, spec := range metricSpecs {
		queries = append(queries, cwtypes.MetricDataQuery{
			Id: aws.String(id),
			MetricStat: &cwtypes.MetricStat{
				Metric: &cwtypes.Metric{
					Namespace:  aws.String("AWS/CloudFront"),
					MetricName: aws.String(spec.metricName),
					Dimensions: []cwtypes.Dimension{
						{Name: aws.String("DistributionId"), Value: aws.String(distributionID)},
						{Name: aws.String("Region"), Value: aws.String("Global")},
					},
				},
				Period: aws.Int32(int32(h.period.Seconds())),
				Stat:   aws.String(spec.stat),
			},
			ReturnData: aws.Bool(true),
		})
	}
	sort.Slice(queries, func(i, j int) bool {
		return aws.ToString(queries[i].Id) < aws.ToString(queries[j].Id)
	})

	out, err := h.client.GetMetricData(ctx, &cloudwatch.GetMetricDataInput{
		MetricDataQueries: queries,
		StartTime:         aws.Time(start),
		EndTime:           aws.Time(end),
		ScanBy:            cwtypes.ScanByTimestampAscending,
		MaxDatapoints:     aws.Int32(1000),
	})
	if err != nil {
		return nil, Classify(ctx, "cloudwatch:GetMetricData", err)
	}

	return mapMetricData(distributionID, out), nil
}

func mapMetricData(distributionID string, out *cloudwatch.GetMetricDataOutput) domain.DeliveryPayload {
	payload := domain.DeliveryPayload{
		DistributionID: distributionID,
		Scalars:        make(map[string]domain.ScalarMetric),
	}
	if len(out.MetricDataResults) == 0 {
		payload.StatusCode = "NoData"
		return payload
	}

	for _, result := range out.MetricDataResults {
		id := aws.ToString(result.Id)
		payload.StatusCode = string(result.StatusCode)

		for _, message := range result.Messages {
			code := aws.ToString(message.Code)
			if code == "" {
				code = "Message"
			}
			payload.Messages = append(payload.Messages, fmt.Sprintf("%s: %s", code, aws.ToString(message.Value)))
		}

		if id == domain.MetricRequests {
			for i, ts := range result.Timestamps {
				if i >= len(result.Values) {
					break
				}
				payload.Requests = append(payload.Requests, domain.MetricSample{
					Timestamp: ts,
					Value:     result.Values[i],
				})
			}
			continue
		}

		spec, ok := metricSpecs[id]
		if !ok {
			continue
		}
		payload.Scalars[id] = domain.ScalarMetric{
			Label:      spec.label,
			Unit:       spec.unit,
			Values:     result.Values,
			Timestamps: result.Timestamps,
		}
	}

	sort.Slice(payload.Requests, func(i, j int) bool {
		return payload.Requests[i].Timestamp.Before(payload.Requests[j].Timestamp)
	})
	return payload
}
