package aws

import (
	"context"

	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRPS = 20
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 100
)

// RateLimiter caps outbound API call volume across all handlers. It is an
// owned object injected into the provider, not a package-level singleton,
// so tests can swap it out.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

type tokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter builds a token-bucket limiter at the given requests per
// second, clamped to a sane range. Zero or out-of-range values fall back to
// the default.
func NewRateLimiter(rps int) RateLimiter {
	if rps < minRateLimitRPS || rps > maxRateLimitRPS {
		rps = defaultRateLimitRPS
	}
	return &tokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (l *tokenBucketLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// unlimited is used by tests that do not care about pacing.
type unlimited struct{}

func (unlimited) Wait(ctx context.Context) error { return ctx.Err() }
