package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindTerminal(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		terminal bool
	}{
		{ErrorAuth, true},
		{ErrorPermanentNotFound, true},
		{ErrorUnsupportedKind, true},
		{ErrorThrottled, false},
		{ErrorTransient, false},
		{ErrorUnknown, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.kind.Terminal())
		})
	}
}

func TestFetchErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError(ErrorTransient, "s3:ListBuckets call failed", cause)

	assert.Contains(t, err.Error(), "Transient")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	bare := NewFetchError(ErrorAuth, "sts:GetCallerIdentity call failed", nil)
	assert.NotContains(t, bare.Error(), "<nil>")
	assert.Nil(t, bare.Unwrap())
}

func TestCacheKeyString(t *testing.T) {
	assert.Equal(t, "identity", NewCacheKey(KindIdentity, "").String())
	assert.Equal(t, "delivery/E123ABC", NewCacheKey(KindDelivery, "E123ABC").String())
}
