package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type storageHandler struct {
	client S3Client
}

func newStorageHandler(cfg aws.Config) *storageHandler {
	return &storageHandler{client: s3.NewFromConfig(cfg)}
}

func (h *storageHandler) Kind() domain.ServiceKind {
	return domain.KindStorage
}

func (h *storageHandler) Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	out, err := h.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, Classify(ctx, "s3:ListBuckets", err)
	}

	payload := domain.StoragePayload{
		Buckets: make([]domain.StorageBucket, 0, len(out.Buckets)),
	}
	for _, bucket := range out.Buckets {
		mapped := domain.StorageBucket{Name: aws.ToString(bucket.Name)}
		if bucket.CreationDate != nil {
			mapped.CreatedAt = *bucket.CreationDate
		}
		payload.Buckets = append(payload.Buckets, mapped)
	}
	return payload, nil
}
