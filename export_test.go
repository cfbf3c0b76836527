package relay

import (
	"context"
	"time"
)

// SetRetryWait replaces the backoff timer so tests can observe delays
// without sleeping.
func SetRetryWait(r *Retry, fn func(ctx context.Context, d time.Duration) error) {
	r.wait = fn
}
