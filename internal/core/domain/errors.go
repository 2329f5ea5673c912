package domain

import "fmt"

// ErrorKind classifies a fetch failure for the coordinator's retry policy.
type ErrorKind string

const (
	ErrorAuth              ErrorKind = "AuthError"
	ErrorThrottled         ErrorKind = "Throttled"
	ErrorTransient         ErrorKind = "Transient"
	ErrorPermanentNotFound ErrorKind = "PermanentNotFound"
	ErrorUnknown           ErrorKind = "Unknown"
	ErrorUnsupportedKind   ErrorKind = "UnsupportedServiceKind"
)

// Terminal reports whether the scheduler should stop retrying the key until
// a user-forced refresh. Unknown is treated conservatively as transient.
func (k ErrorKind) Terminal() bool {
	switch k {
	case ErrorAuth, ErrorPermanentNotFound, ErrorUnsupportedKind:
		return true
	}
	return false
}

// FetchError is the typed result of a failed fetch. It never escapes the
// adapter as a panic; callers convert it into cache-entry state.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func NewFetchError(kind ErrorKind, message string, cause error) *FetchError {
	return &FetchError{Kind: kind, Message: message, Cause: cause}
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
