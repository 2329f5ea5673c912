package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderdash/wonderdash/internal/core/domain"
	"github.com/wonderdash/wonderdash/internal/core/ports"
)

type testLogger struct{}

func (testLogger) Debugf(context.Context, string, ...any)        {}
func (testLogger) Infof(context.Context, string, ...any)         {}
func (testLogger) Warnf(context.Context, string, ...any)         {}
func (testLogger) Errorf(context.Context, error, string, ...any) {}
func (testLogger) WithFields(map[string]any) ports.Logger        { return testLogger{} }

type stubHandler struct {
	kind    domain.ServiceKind
	payload domain.Payload
	err     *domain.FetchError
	gotKey  domain.CacheKey
}

func (h *stubHandler) Kind() domain.ServiceKind { return h.kind }

func (h *stubHandler) Fetch(_ context.Context, key domain.CacheKey) (domain.Payload, *domain.FetchError) {
	h.gotKey = key
	return h.payload, h.err
}

type blockedLimiter struct{ err error }

func (l blockedLimiter) Wait(context.Context) error { return l.err }

func newTestProvider(handlers ...kindHandler) (*Provider, fixedClock) {
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	p := &Provider{
		handlers: make(map[domain.ServiceKind]kindHandler),
		limiter:  unlimited{},
		clock:    clock,
		logger:   testLogger{},
	}
	for _, h := range handlers {
		p.register(h)
	}
	return p, clock
}

func TestProviderFetchStampsFetchTime(t *testing.T) {
	handler := &stubHandler{kind: domain.KindIdentity, payload: domain.IdentityPayload{Account: "123456789012"}}
	p, clock := newTestProvider(handler)

	key := domain.NewCacheKey(domain.KindIdentity, "")
	record, fetchErr := p.Fetch(context.Background(), key)

	require.Nil(t, fetchErr)
	require.NotNil(t, record)
	assert.Equal(t, domain.KindIdentity, record.Kind)
	assert.Equal(t, clock.Now(), record.FetchedAt)
	assert.Equal(t, key, handler.gotKey)
}

func TestProviderFetchUnknownKindIsTerminal(t *testing.T) {
	p, _ := newTestProvider()

	record, fetchErr := p.Fetch(context.Background(), domain.NewCacheKey("database", ""))

	assert.Nil(t, record)
	require.NotNil(t, fetchErr)
	assert.Equal(t, domain.ErrorUnsupportedKind, fetchErr.Kind)
	assert.True(t, fetchErr.Kind.Terminal())
}

func TestProviderFetchPropagatesHandlerError(t *testing.T) {
	handler := &stubHandler{
		kind: domain.KindStorage,
		err:  domain.NewFetchError(domain.ErrorThrottled, "s3:ListBuckets call failed", nil),
	}
	p, _ := newTestProvider(handler)

	record, fetchErr := p.Fetch(context.Background(), domain.NewCacheKey(domain.KindStorage, ""))

	assert.Nil(t, record)
	require.NotNil(t, fetchErr)
	assert.Equal(t, domain.ErrorThrottled, fetchErr.Kind)
}

func TestProviderFetchLimiterInterruptIsTransient(t *testing.T) {
	handler := &stubHandler{kind: domain.KindCompute, payload: domain.ComputePayload{}}
	p, _ := newTestProvider(handler)
	p.limiter = blockedLimiter{err: errors.New("context canceled")}

	record, fetchErr := p.Fetch(context.Background(), domain.NewCacheKey(domain.KindCompute, ""))

	assert.Nil(t, record)
	require.NotNil(t, fetchErr)
	assert.Equal(t, domain.ErrorTransient, fetchErr.Kind)
	assert.Empty(t, handler.gotKey.Kind, "handler must not run when the limiter refuses")
}

func TestNewRateLimiterClampsRange(t *testing.T) {
	for _, rps := range []int{-1, 0, 101} {
		limiter := NewRateLimiter(rps)
		require.IsType(t, &tokenBucketLimiter{}, limiter)
		bucket := limiter.(*tokenBucketLimiter)
		assert.Equal(t, float64(defaultRateLimitRPS), float64(bucket.limiter.Limit()))
	}

	bucket := NewRateLimiter(5).(*tokenBucketLimiter)
	assert.Equal(t, 5.0, float64(bucket.limiter.Limit()))
}

func TestRateLimiterWaitHonorsCancel(t *testing.T) {
	limiter := NewRateLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())

	// Drain the initial burst, then cancel while waiting for a token.
	require.NoError(t, limiter.Wait(ctx))
	cancel()
	assert.Error(t, limiter.Wait(ctx))
}
