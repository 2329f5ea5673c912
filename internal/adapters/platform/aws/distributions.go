package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"

	apperrors "github.com/wonderdash/wonderdash/internal/errors"
)

type DistributionSummary struct {
	ID          string
	DomainName  string
	Aliases     []string
	OriginCount int32
	Enabled     bool
}

// ListDistributions enumerates the account's CloudFront distributions so
// the CLI can help the user pick a delivery target.
func (p *Provider) ListDistributions(ctx context.Context) ([]DistributionSummary, error) {
	client := cloudfront.NewFromConfig(p.awsConfig)
	paginator := cloudfront.NewListDistributionsPaginator(client, &cloudfront.ListDistributionsInput{})

	var summaries []DistributionSummary
	for paginator.HasMorePages() {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePlatformAPIError, "rate limiter wait interrupted")
		}
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodePlatformAPIError, "failed to list CloudFront distributions")
		}
		if out.DistributionList == nil {
			continue
		}
		for _, item := range out.DistributionList.Items {
			summaries = append(summaries, mapDistribution(item))
		}
	}
	return summaries, nil
}

func mapDistribution(item cftypes.DistributionSummary) DistributionSummary {
	summary := DistributionSummary{
		ID:         aws.ToString(item.Id),
		DomainName: aws.ToString(item.DomainName),
		Enabled:    aws.ToBool(item.Enabled),
	}
	if item.Aliases != nil {
		summary.Aliases = item.Aliases.Items
	}
	if item.Origins != nil {
		summary.OriginCount = aws.ToInt32(item.Origins.Quantity)
	}
	return summary
}
