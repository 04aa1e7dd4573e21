// internal/domain/notification/outcome.go
package notification

import (
	"errors"
	"fmt"
)

// Outcome classifies the result of a single delivery attempt.
type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeRejected        Outcome = "rejected"         // caller-attributable, do not retry
	OutcomeUpstreamFailure Outcome = "upstream_failure" // gateway-attributable, may retry
	OutcomeMisconfigured   Outcome = "misconfigured"    // no attempt was possible
)

// ErrMissingCredential is returned when no gateway credential is configured.
var ErrMissingCredential = errors.New("TELEGRAM_BOT_TOKEN is not set")

// ErrMisconfigured matches any MisconfiguredError.
var ErrMisconfigured = errors.New("gateway misconfigured")

// ErrRejected and ErrUpstream let callers match failure families with errors.Is.
var (
	ErrRejected = errors.New("delivery rejected")
	ErrUpstream = errors.New("upstream gateway failure")
)

// RejectedError means the gateway (or the dispatcher, before calling it)
// refused the input: bad recipient, empty or oversized text.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// UpstreamError means the gateway could not be reached or failed on its side.
type UpstreamError struct {
	Reason string
	Err    error // underlying transport error, if any
}

func (e *UpstreamError) Error() string {
	return e.Reason
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MisconfiguredError means the gateway refused the server-held credential.
// Nothing the caller sends can fix it.
type MisconfiguredError struct {
	Reason string
}

func (e *MisconfiguredError) Error() string {
	return e.Reason
}

func (e *MisconfiguredError) Is(target error) bool {
	return target == ErrMisconfigured
}

// Misconfigured builds a MisconfiguredError with a formatted reason.
func Misconfigured(format string, args ...any) error {
	return &MisconfiguredError{Reason: fmt.Sprintf(format, args...)}
}

// Rejected builds a RejectedError with a formatted reason.
func Rejected(format string, args ...any) error {
	return &RejectedError{Reason: fmt.Sprintf(format, args...)}
}

// Upstream builds an UpstreamError wrapping err.
func Upstream(reason string, err error) error {
	return &UpstreamError{Reason: reason, Err: err}
}

// OutcomeOf maps a Dispatch result to its outcome. Errors outside the
// delivery taxonomy count as upstream failures.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeDelivered
	case errors.Is(err, ErrMissingCredential), errors.Is(err, ErrMisconfigured):
		return OutcomeMisconfigured
	case errors.Is(err, ErrRejected):
		return OutcomeRejected
	default:
		return OutcomeUpstreamFailure
	}
}

// IsRetryable reports whether a caller may try the same delivery again.
func IsRetryable(err error) bool {
	return OutcomeOf(err) == OutcomeUpstreamFailure
}
