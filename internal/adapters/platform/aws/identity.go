package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type identityHandler struct {
	client STSClient
}

func newIdentityHandler(cfg aws.Config) *identityHandler {
	return &identityHandler{client: sts.NewFromConfig(cfg)}
}

func (h *identityHandler) Kind() domain.ServiceKind {
	return domain.KindIdentity
}

func (h *identityHandler) Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	out, err := h.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, Classify(ctx, "sts:GetCallerIdentity", err)
	}
	return domain.IdentityPayload{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
