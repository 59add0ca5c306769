package apigateway

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the repositories and use cases wraps
// exactly one of these so callers can branch with errors.Is.
var (
	ErrValidation = errors.New("invalid parameters")
	ErrConflict   = errors.New("conflict")
	ErrTransport  = errors.New("remote call failed")
	ErrNotFound   = errors.New("resource not found")
	ErrTimeout    = errors.New("timed out waiting for VPC link")
	ErrLinkFailed = errors.New("VPC link entered FAILED state")
)

var (
	ErrInvalidName       = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidTargets    = fmt.Errorf("%w: at least one target ARN is required", ErrValidation)
	ErrInvalidID         = fmt.Errorf("%w: VPC link id cannot be empty", ErrValidation)
	ErrInvalidRestAPIID  = fmt.Errorf("%w: rest_api_id cannot be empty", ErrValidation)
	ErrInvalidResourceID = fmt.Errorf("%w: resource_id cannot be empty", ErrValidation)
	ErrInvalidHTTPMethod = fmt.Errorf("%w: http_method must be one of GET, PUT, POST, DELETE, PATCH, HEAD, ANY, OPTIONS", ErrValidation)
	ErrInvalidTimeout    = fmt.Errorf("%w: wait_timeout must be positive", ErrValidation)
	ErrTimeoutTooLong    = fmt.Errorf("%w: wait_timeout must be at most %d seconds", ErrValidation, int(MaxWaitTimeout.Seconds()))

	ErrDifferentName = fmt.Errorf("%w: VPC link for target arns already exists with the different name", ErrConflict)
	ErrFailedExists  = fmt.Errorf("%w: VPC link for target arns exists in FAILED state", ErrConflict)
)

// TransportError wraps a failed AWS API call after retries are exhausted.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match so callers do not need errors.As.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Kind is the short machine-readable name of an error kind.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindTransport  Kind = "transport"
	KindNotFound   Kind = "not_found"
	KindTimeout    Kind = "timeout"
	KindLinkFailed Kind = "link_failed"
	KindUnknown    Kind = "unknown"
)

// KindOf classifies err. Transport is checked last because a NotFound from
// the remote side is also an API error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrLinkFailed):
		return KindLinkFailed
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}
