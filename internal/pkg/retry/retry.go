// Package retry runs a call with a bounded number of attempts, a per-attempt timeout
// and a linearly increasing pause between attempts.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retryable call. The pause before attempt n+1 is n*Step.
type Policy struct {
	MaxAttempts    int
	Step           time.Duration
	AttemptTimeout time.Duration
}

// Classifier reports whether a failed attempt may be retried.
type Classifier func(err error) bool

// NotifyFunc is called after a failed attempt that will be retried.
type NotifyFunc func(attempt int, err error, wait time.Duration)

// linearBackOff yields Step, 2*Step, 3*Step, ...
type linearBackOff struct {
	step time.Duration
	n    int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }

// Do runs op until it succeeds, fails with an error retryable rejects, or p.MaxAttempts
// attempts have been made. An attempt that runs out of its own timeout is always retryable.
// The last error is returned on exhaustion.
func Do(ctx context.Context, p Policy, retryable Classifier, op func(ctx context.Context) error, notify NotifyFunc) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		defer cancel()

		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return err
		}
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: p.Step}, uint64(maxAttempts-1)),
		ctx,
	)
	return backoff.RetryNotify(operation, b, func(err error, wait time.Duration) {
		if notify != nil {
			notify(attempt, err, wait)
		}
	})
}
