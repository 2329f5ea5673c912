package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
	apperrors "github.com/wonderdash/wonderdash/internal/errors"
)

const ProviderTypeAWS = "aws"

// kindHandler is one service kind's translation layer: a single outbound
// call shape plus normalization into a payload.
type kindHandler interface {
	Kind() domain.ServiceKind
	Fetch(ctx context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError)
}

// Provider implements ports.Fetcher over the AWS SDK clients. Every fetch
// waits on the shared rate limiter first, so total outbound volume stays
// capped no matter how many keys the coordinator dispatches.
type Provider struct {
	awsConfig awssdk.Config
	handlers  map[domain.ServiceKind]kindHandler
	limiter   RateLimiter
	clock     ports.Clock
	logger    ports.Logger
}

type Options struct {
	Region       string
	Profile      string
	MetricPeriod time.Duration
	MetricWindow time.Duration
	RateLimitRPS int
}

func NewProvider(ctx context.Context, opts Options, clock ports.Clock, logger ports.Logger) (*Provider, error) {
	if logger == nil {
		return nil, apperrors.New(apperrors.CodeConfigValidation, "logger cannot be nil for AWS provider")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigValidation, "failed to load AWS config")
	}

	p := &Provider{
		awsConfig: cfg,
		handlers:  make(map[domain.ServiceKind]kindHandler),
		limiter:   NewRateLimiter(opts.RateLimitRPS),
		clock:     clock,
		logger:    logger,
	}

	p.register(newIdentityHandler(cfg))
	p.register(newComputeHandler(cfg))
	p.register(newStorageHandler(cfg))
	p.register(newDeliveryHandler(cfg, clock, opts.MetricPeriod, opts.MetricWindow))
	p.register(newLogsHandler(cfg))

	return p, nil
}

func (p *Provider) register(h kindHandler) {
	if h != nil {
		p.handlers[h.Kind()] = h
	}
}

func (p *Provider) Type() string {
	return ProviderTypeAWS
}

// Fetch performs one outbound call for the key and stamps the result with
// the current time. Unknown kinds are a programmer error and fail fast with
// a terminal classification.
func (p *Provider) Fetch(ctx context.Context, key domain.CacheKey) (*domain.ServiceRecord, *domain.FetchError) {
	handler, ok := p.handlers[key.Kind]
	if !ok {
		return nil, domain.NewFetchError(domain.ErrorUnsupportedKind,
			fmt.Sprintf("service kind %q is not supported by the AWS provider", key.Kind), nil)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, domain.NewFetchError(domain.ErrorTransient, "rate limiter wait interrupted", err)
	}

	payload, fetchErr := handler.Fetch(ctx, key)
	if fetchErr != nil {
		return nil, fetchErr
	}

	return &domain.ServiceRecord{
		Kind:      key.Kind,
		Payload:   payload,
		FetchedAt: p.clock.Now(),
	}, nil
}

func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
