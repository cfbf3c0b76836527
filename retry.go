package relay

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 75 * time.Second
	backoffBase           = time.Second
	backoffCap            = 5 * time.Second
)

// RequestFunc executes one delivery attempt under the context's deadline.
type RequestFunc func(ctx context.Context) (Result, error)

// Retry executes a request with exponential backoff between retryable
// failures. The zero value uses the defaults (3 attempts, 75s per attempt).
type Retry struct {
	// MaxAttempts includes the initial attempt. Zero means the default.
	MaxAttempts int
	// AttemptTimeout is the deadline applied to each attempt. Zero means
	// the default.
	AttemptTimeout time.Duration

	// wait overrides the backoff timer in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// Do runs fn up to MaxAttempts times and returns the terminal Outcome.
// Classification:
//   - success: returned immediately, no further attempts
//   - timeout: non-retryable; retrying rarely helps and risks duplicate
//     side effects on the server
//   - transport/server: retryable after a backoff wait
//   - client: non-retryable
//   - aborted: terminal, immediately
//
// Each retry waits out its backoff delay, then notifies the sink with a
// reconnecting progress update before the next attempt. The backoff wait is
// cancellable: an abort interrupts a pending delay at once.
func (r *Retry) Do(ctx context.Context, sink Sink, fn RequestFunc) Outcome {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	timeout := r.AttemptTimeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	var last Outcome
	for n := 1; n <= attempts; n++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		res, err := fn(attemptCtx)
		cancel()

		if err == nil {
			return Succeeded(res)
		}

		out := ClassifyError(err)
		// The attempt context hitting its deadline is a timeout; the parent
		// being cancelled is an abort regardless of what the attempt saw.
		if ctx.Err() != nil {
			return ClassifyError(ctx.Err())
		}
		if !out.Kind.Retryable() {
			return out
		}

		last = out
		if n == attempts {
			break
		}

		if err := r.sleep(ctx, backoffDelay(n)); err != nil {
			return ClassifyError(err)
		}
		sink.Progress(Update{
			Stage:   StageStatus,
			Message: fmt.Sprintf("reconnecting, attempt %d/%d", n+1, attempts),
		})
	}
	return last
}

// backoffDelay returns the wait after the nth retryable failure:
// min(1s * 2^(n-1), 5s).
func backoffDelay(n int) time.Duration {
	d := backoffBase << (n - 1)
	if d > backoffCap || d <= 0 {
		d = backoffCap
	}
	return d
}

// sleep waits for d or until ctx is done, whichever comes first.
func (r *Retry) sleep(ctx context.Context, d time.Duration) error {
	if r.wait != nil {
		return r.wait(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
