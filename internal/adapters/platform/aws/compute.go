package aws

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type computeHandler struct {
	client EC2Client
}

func newComputeHandler(cfg aws.Config) *computeHandler {
	return &computeHandler{client: ec2.NewFromConfig(cfg)}
}

func (h *computeHandler) Kind() domain.ServiceKind {
	return domain.KindCompute
}

// Fetch lists all instances for the account/region. Pagination pages count
// as one logical invocation; the SDK's transport-level retry applies per
// page, but no retry loop lives here.
func (h *computeHandler) Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	paginator := ec2.NewDescribeInstancesPaginator(h.client, &ec2.DescribeInstancesInput{})

	payload := domain.ComputePayload{
		CountsByState: make(map[string]int),
	}

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, Classify(ctx, "ec2:DescribeInstances", err)
		}
		for _, reservation := range out.Reservations {
			for _, instance := range reservation.Instances {
				mapped := mapInstance(instance)
				payload.Instances = append(payload.Instances, mapped)
				payload.CountsByState[mapped.State]++
			}
		}
	}

	sort.Slice(payload.Instances, func(i, j int) bool {
		return payload.Instances[i].InstanceID < payload.Instances[j].InstanceID
	})
	return payload, nil
}

func mapInstance(instance ec2types.Instance) domain.ComputeInstance {
	mapped := domain.ComputeInstance{
		InstanceID:   aws.ToString(instance.InstanceId),
		InstanceType: string(instance.InstanceType),
		Name:         "-",
	}
	if instance.State != nil {
		mapped.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		mapped.AvailabilityZone = aws.ToString(instance.Placement.AvailabilityZone)
	}
	if instance.LaunchTime != nil {
		mapped.LaunchedAt = *instance.LaunchTime
	}
	for _, tag := range instance.Tags {
		if aws.ToString(tag.Key) == "Name" {
			mapped.Name = aws.ToString(tag.Value)
			break
		}
	}
	return mapped
}
