package aws

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/wonderdash/wonderdash/internal/core/domain"
)

var throttleCodes = map[string]struct{}{
	"Throttling":                {},
	"ThrottlingException":       {},
	"ThrottledException":        {},
	"RequestLimitExceeded":      {},
	"RequestThrottled":          {},
	"RequestThrottledException": {},
	"TooManyRequestsException":  {},
	"SlowDown":                  {},
}

var authCodes = map[string]struct{}{
	"AuthFailure":                {},
	"UnauthorizedOperation":      {},
	"AccessDenied":               {},
	"AccessDeniedException":      {},
	"ExpiredToken":               {},
	"ExpiredTokenException":      {},
	"InvalidClientTokenId":       {},
	"UnrecognizedClientException": {},
	"SignatureDoesNotMatch":      {},
	"MissingAuthenticationToken": {},
}

var notFoundCodes = map[string]struct{}{
	"NoSuchDistribution":        {},
	"NoSuchBucket":              {},
	"NoSuchKey":                 {},
	"ResourceNotFoundException": {},
	"EntityNotFoundException":   {},
	"NotFoundException":         {},
	"InvalidInstanceID.NotFound": {},
}

// Classify maps a raw AWS SDK error onto the fetch error taxonomy. The
// coordinator's retry policy keys off the resulting kind: throttled and
// transient failures retry on the next tick, auth and not-found failures
// are terminal until a user-forced refresh.
func Classify(ctx context.Context, service string, err error) *domain.FetchError {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("%s call failed", service)

	if ctx.Err() != nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return domain.NewFetchError(domain.ErrorTransient, msg, err)
	}

	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if _, ok := throttleCodes[code]; ok {
			return domain.NewFetchError(domain.ErrorThrottled, msg, err)
		}
		if _, ok := authCodes[code]; ok {
			return domain.NewFetchError(domain.ErrorAuth, msg, err)
		}
		if _, ok := notFoundCodes[code]; ok {
			return domain.NewFetchError(domain.ErrorPermanentNotFound, msg, err)
		}
	}

	var netErr net.Error
	if stderrs.As(err, &netErr) {
		return domain.NewFetchError(domain.ErrorTransient, msg, err)
	}

	// Credential-chain failures surface as plain errors, not APIErrors.
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "no EC2 IMDS role found"),
		strings.Contains(errMsg, "failed to retrieve credentials"),
		strings.Contains(errMsg, "failed to refresh cached credentials"),
		strings.Contains(errMsg, "static credentials are empty"):
		return domain.NewFetchError(domain.ErrorAuth, msg, err)
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "no such host"),
		strings.Contains(errMsg, "i/o timeout"):
		return domain.NewFetchError(domain.ErrorTransient, msg, err)
	}

	return domain.NewFetchError(domain.ErrorUnknown, msg, err)
}
