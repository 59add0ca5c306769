// Package retry wraps AWS API calls with capped, jittered exponential backoff.
//
// It is the only retry layer: clients built by this module disable the SDK's
// own retryer so attempt counts stay predictable.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsretry "github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/smithy-go"
	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"apigw-modules/pkg/metrics"
)

const (
	DefaultMaxAttempts = 10
	DefaultBaseDelay   = 10 * time.Second
	DefaultMaxDelay    = 60 * time.Second
)

// DefaultExtraRetryableCodes are retried on top of the SDK's transient and
// throttling classification.
var DefaultExtraRetryableCodes = []string{"TooManyRequestsException"}

// Policy decides whether and when a failed call is attempted again.
type Policy struct {
	// MaxAttempts includes the first call.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// ExtraRetryableCodes are API error codes retried regardless of the SDK
	// classification.
	ExtraRetryableCodes []string
	// Jitter picks the actual sleep given the capped backoff ceiling.
	Jitter func(ceiling time.Duration) time.Duration
	Clock  clock.Clock
}

// DefaultPolicy returns the policy used for every API Gateway call.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:         DefaultMaxAttempts,
		BaseDelay:           DefaultBaseDelay,
		MaxDelay:            DefaultMaxDelay,
		ExtraRetryableCodes: DefaultExtraRetryableCodes,
		Jitter:              FullJitter,
		Clock:               clock.RealClock{},
	}
}

// FullJitter returns a uniformly random duration in [0, ceiling).
func FullJitter(ceiling time.Duration) time.Duration {
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(ceiling)))
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	logger := log.FromContext(ctx).WithValues("operation", operation)

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 || !p.Retryable(err) {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := p.Backoff(attempt)
		metrics.RecordRetry(operation)
		logger.V(1).Info("Retrying AWS API call", "attempt", attempt+1, "delay", delay.String(), "error", err.Error())
		p.clock().Sleep(delay)
	}

	return err
}

// Retryable reports whether err is worth another attempt.
func (p Policy) Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && slices.Contains(p.ExtraRetryableCodes, apiErr.ErrorCode()) {
		return true
	}

	return awsretry.IsErrorRetryables(awsretry.DefaultRetryables).IsErrorRetryable(err) == aws.TrueTernary
}

// Backoff returns the sleep before retry number attempt+1.
func (p Policy) Backoff(attempt int) time.Duration {
	ceiling := p.MaxDelay
	if attempt < 32 {
		if d := p.BaseDelay << attempt; d > 0 && d < p.MaxDelay {
			ceiling = d
		}
	}

	jitter := p.Jitter
	if jitter == nil {
		jitter = FullJitter
	}
	return jitter(ceiling)
}

func (p Policy) clock() clock.Clock {
	if p.Clock == nil {
		return clock.RealClock{}
	}
	return p.Clock
}
