package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

type mockAPIError struct {
	code string
	msg  string
}

func (m *mockAPIError) Error() string                 { return m.msg }
func (m *mockAPIError) ErrorCode() string             { return m.code }
func (m *mockAPIError) ErrorMessage() string          { return m.msg }
func (m *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyNilError(t *testing.T) {
	assert.Nil(t, Classify(context.Background(), "sts:GetCallerIdentity", nil))
}

func TestClassifyAPIErrorCodes(t *testing.T) {
	tests := []struct {
		code string
		want domain.ErrorKind
	}{
		{"Throttling", domain.ErrorThrottled},
		{"ThrottlingException", domain.ErrorThrottled},
		{"RequestLimitExceeded", domain.ErrorThrottled},
		{"TooManyRequestsException", domain.ErrorThrottled},
		{"SlowDown", domain.ErrorThrottled},
		{"AccessDenied", domain.ErrorAuth},
		{"UnauthorizedOperation", domain.ErrorAuth},
		{"ExpiredToken", domain.ErrorAuth},
		{"UnrecognizedClientException", domain.ErrorAuth},
		{"NoSuchDistribution", domain.ErrorPermanentNotFound},
		{"ResourceNotFoundException", domain.ErrorPermanentNotFound},
		{"InvalidInstanceID.NotFound", domain.ErrorPermanentNotFound},
		{"SomethingNovel", domain.ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := Classify(context.Background(), "ec2:DescribeInstances",
				&mockAPIError{code: tt.code, msg: "api failure"})
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Kind)
		})
	}
}

func TestClassifyWrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("operation error CloudWatch: GetMetricData: %w",
		&mockAPIError{code: "Throttling", msg: "rate exceeded"})

	err := Classify(context.Background(), "cloudwatch:GetMetricData", wrapped)
	require.NotNil(t, err)
	assert.Equal(t, domain.ErrorThrottled, err.Kind)
	assert.ErrorIs(t, err, wrapped)
}

func TestClassifyContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Classify(ctx, "s3:ListBuckets", errors.New("request aborted"))
	require.NotNil(t, err)
	assert.Equal(t, domain.ErrorTransient, err.Kind)

	err = Classify(context.Background(), "s3:ListBuckets", context.DeadlineExceeded)
	require.NotNil(t, err)
	assert.Equal(t, domain.ErrorTransient, err.Kind)
}

func TestClassifyNetworkError(t *testing.T) {
	err := Classify(context.Background(), "logs:DescribeLogGroups", timeoutError{})
	require.NotNil(t, err)
	assert.Equal(t, domain.ErrorTransient, err.Kind)
}

func TestClassifyCredentialChainMessages(t *testing.T) {
	tests := []struct {
		msg  string
		want domain.ErrorKind
	}{
		{"failed to retrieve credentials: no providers in chain", domain.ErrorAuth},
		{"failed to refresh cached credentials, no EC2 IMDS role found", domain.ErrorAuth},
		{"static credentials are empty", domain.ErrorAuth},
		{"dial tcp 1.2.3.4:443: connection refused", domain.ErrorTransient},
		{"lookup sts.us-east-1.amazonaws.com: no such host", domain.ErrorTransient},
		{"something else entirely", domain.ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := Classify(context.Background(), "sts:GetCallerIdentity", errors.New(tt.msg))
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Kind)
		})
	}
}

func TestClassifyMessageNamesService(t *testing.T) {
	err := Classify(context.Background(), "ec2:DescribeInstances", errors.New("boom"))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "ec2:DescribeInstances")
}
