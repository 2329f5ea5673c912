package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type logsHandler struct {
	client LogsClient
}

func newLogsHandler(cfg aws.Config) *logsHandler {
	return &logsHandler{client: cloudwatchlogs.NewFromConfig(cfg)}
}

func (h *logsHandler) Kind() domain.ServiceKind {
	return domain.KindLogs
}

// Fetch lists log groups, scoped by the key's discriminator as a name
// prefix when one is configured.
func (h *logsHandler) Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{}
	if key.Discriminator != "" {
		input.LogGroupNamePrefix = aws.String(key.Discriminator)
	}

	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(h.client, input)

	var payload domain.LogsPayload
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, Classify(ctx, "logs:DescribeLogGroups", err)
		}
		for _, group := range out.LogGroups {
			payload.Groups = append(payload.Groups, mapLogGroup(group))
		}
	}
	return payload, nil
}

func mapLogGroup(group types.LogGroup) domain.LogGroup {
	mapped := domain.LogGroup{
		Name:          aws.ToString(group.LogGroupName),
		RetentionDays: aws.ToInt32(group.RetentionInDays),
		StoredBytes:   aws.ToInt64(group.StoredBytes),
	}
	if group.CreationTime != nil {
		mapped.CreatedAt = timeFromMillis(*group.CreationTime)
	}
	return mapped
}
