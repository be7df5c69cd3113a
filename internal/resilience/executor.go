package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-hclog"
)

// Policy bounds the attempts of one operation. Total attempts are
// 1 + MaxRetries; the delay before retry i (from 0) is BaseDelay * 2^i.
// The bounds keep the largest delay within a time.Duration.
type Policy struct {
	MaxRetries int           `validate:"gte=0,lte=16"`
	BaseDelay  time.Duration `validate:"gt=0,lte=1h"`
}

// Validate checks the policy bounds.
func (p Policy) Validate() error {
	err := halo.Validator().Struct(p)
	if err != nil {
		return &halo.ConfigurationError{Message: fmt.Sprintf("invalid retry policy: %v", err)}
	}

	return nil
}

// Delay returns the delay before retry number retry (0-based).
func (p Policy) Delay(retry int) time.Duration {
	return p.BaseDelay * time.Duration(1<<retry)
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = constants.RetryMultiplier
	exp.RandomizationFactor = 0
	// Never reached: the last retry waits Delay(MaxRetries-1).
	exp.MaxInterval = p.Delay(p.MaxRetries)
	exp.MaxElapsedTime = 0
	exp.Reset()

	return exp
}

// Authenticator is the session used for the pre-flight check.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) error
}

// Executor runs attempts under a Policy.
type Executor struct {
	policy   Policy
	auth     Authenticator
	logger   hclog.Logger
	newTimer func() backoff.Timer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger for retry and exhaustion messages.
func WithLogger(logger hclog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimer replaces the timer used for backoff sleeps.
func WithTimer(newTimer func() backoff.Timer) ExecutorOption {
	return func(e *Executor) {
		e.newTimer = newTimer
	}
}

// NewExecutor creates an executor. auth may be nil when the attempts need
// no session.
func NewExecutor(policy Policy, auth Authenticator, opts ...ExecutorOption) (*Executor, error) {
	err := policy.Validate()
	if err != nil {
		return nil, err
	}

	executor := &Executor{
		policy: policy,
		auth:   auth,
		logger: hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor, nil
}

// Policy returns the executor policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// RetryExhaustedError is returned when every attempt failed with a
// retryable cause. Cause is the failure of the last attempt.
type RetryExhaustedError struct {
	Attempts   int
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("giving up after %d attempts (last status %d): %v", e.Attempts, e.StatusCode, e.Cause)
	}

	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Cause)
}

// Unwrap returns the last cause.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Cause
}

// retryableError carries a retryable cause through the backoff loop.
type retryableError struct {
	cause error
}

func (e *retryableError) Error() string { return e.cause.Error() }

func (e *retryableError) Unwrap() error { return e.cause }

// Execute runs attempt until it succeeds, fails permanently, the policy is
// exhausted or ctx is done. The session is authenticated once before the
// first attempt; a failure there is returned without any attempt.
func Execute[T any](ctx context.Context, e *Executor, name string, attempt Attempt[T]) (T, error) {
	var zero T

	if e.auth != nil {
		err := e.auth.EnsureAuthenticated(ctx)
		if err != nil {
			return zero, err
		}
	}

	attempts := 0
	operation := func() (T, error) {
		err := ctx.Err()
		if err != nil {
			return zero, backoff.Permanent(err)
		}

		attempts++

		outcome := attempt(ctx)
		switch outcome.Kind() {
		case KindSuccess:
			return outcome.Value(), nil
		case KindRetryable:
			return zero, &retryableError{cause: outcome.Err()}
		case KindPermanent:
			return zero, backoff.Permanent(outcome.Err())
		default:
			return zero, backoff.Permanent(fmt.Errorf("%s: %w", name, ErrInvalidOutcome))
		}
	}

	notify := func(err error, delay time.Duration) {
		e.logger.Warn("attempt failed, retrying",
			"operation", name,
			"attempt", attempts,
			"max_attempts", e.policy.MaxRetries+1,
			"delay", delay,
			"error", err,
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(e.policy.backOff(), uint64(e.policy.MaxRetries)), //nolint:gosec // validated gte=0
		ctx,
	)

	var timer backoff.Timer
	if e.newTimer != nil {
		timer = e.newTimer()
	}

	result, err := backoff.RetryNotifyWithTimerAndData(operation, policy, notify, timer)
	if err == nil {
		return result, nil
	}

	var retryable *retryableError
	if errors.As(err, &retryable) {
		exhausted := &RetryExhaustedError{
			Attempts:   attempts,
			StatusCode: halo.StatusCode(retryable.cause),
			Cause:      retryable.cause,
		}
		e.logger.Error("retries exhausted", "operation", name, "attempts", attempts, "error", retryable.cause)

		return zero, exhausted
	}

	return zero, err
}

// ErrInvalidOutcome is reported for an Outcome built without a constructor.
var ErrInvalidOutcome = errors.New("attempt returned an invalid outcome")
