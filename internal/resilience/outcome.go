// Package resilience runs API calls under a retry policy and orders
// fallbacks between equivalent upstream endpoints.
package resilience

import "context"

// Kind is the variant of an Outcome.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindRetryable
	KindPermanent
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRetryable:
		return "retryable"
	case KindPermanent:
		return "permanent"
	default:
		return "invalid"
	}
}

// Outcome is the result of a single attempt. It holds exactly one of: a
// success value, a retryable cause or a permanent cause. Build it with
// Success, Retryable or Permanent.
type Outcome[T any] struct {
	kind  Kind
	value T
	cause error
}

// Success reports a completed attempt.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{kind: KindSuccess, value: value}
}

// Retryable reports a failure that may go away on another attempt.
func Retryable[T any](cause error) Outcome[T] {
	return Outcome[T]{kind: KindRetryable, cause: cause}
}

// Permanent reports a failure that another attempt cannot fix.
func Permanent[T any](cause error) Outcome[T] {
	return Outcome[T]{kind: KindPermanent, cause: cause}
}

// Kind returns the variant.
func (o Outcome[T]) Kind() Kind {
	return o.kind
}

// Value returns the success value; zero for failures.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the failure cause; nil for success.
func (o Outcome[T]) Err() error {
	return o.cause
}

// Attempt performs one network attempt.
type Attempt[T any] func(ctx context.Context) Outcome[T]
