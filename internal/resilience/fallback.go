package resilience

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Leg is one single-shot way of performing an operation.
type Leg[T any] struct {
	Name string
	Call func(ctx context.Context) (T, error)
}

// FallbackError is returned when both legs failed. It unwraps to both
// causes.
type FallbackError struct {
	Operation string
	Primary   string
	Secondary string
	errs      *multierror.Error
}

// Error implements the error interface.
func (e *FallbackError) Error() string {
	return fmt.Sprintf("%s failed on both endpoints: %s", e.Operation, e.errs.Error())
}

// Unwrap exposes both causes to errors.Is and errors.As.
func (e *FallbackError) Unwrap() error {
	return e.errs.ErrorOrNil()
}

// Causes returns the primary and secondary failures in order.
func (e *FallbackError) Causes() []error {
	return e.errs.WrappedErrors()
}

// legError labels a cause with the leg that produced it.
type legError struct {
	leg   string
	cause error
}

func (e *legError) Error() string { return e.leg + ": " + e.cause.Error() }

func (e *legError) Unwrap() error { return e.cause }

func formatLegErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "; ")
}

// Fallback calls primary and, if it fails, secondary. Neither leg is
// retried. The primary failure is only logged when secondary succeeds.
func Fallback[T any](ctx context.Context, logger hclog.Logger, operation string, primary, secondary Leg[T]) (T, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	result, primaryErr := primary.Call(ctx)
	if primaryErr == nil {
		return result, nil
	}

	var zero T

	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}

	logger.Warn("primary endpoint failed, trying fallback",
		"operation", operation,
		"primary", primary.Name,
		"secondary", secondary.Name,
		"error", primaryErr,
	)

	result, secondaryErr := secondary.Call(ctx)
	if secondaryErr == nil {
		return result, nil
	}

	errs := multierror.Append(nil,
		&legError{leg: "primary " + primary.Name, cause: primaryErr},
		&legError{leg: "secondary " + secondary.Name, cause: secondaryErr},
	)
	errs.ErrorFormat = formatLegErrors

	return zero, &FallbackError{
		Operation: operation,
		Primary:   primary.Name,
		Secondary: secondary.Name,
		errs:      errs,
	}
}
