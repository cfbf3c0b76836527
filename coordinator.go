package relay

import (
	"context"
	"time"
)

// Config holds the mode flags for a Coordinator. Both are read once per
// Send call; passing them explicitly keeps coordinators independently
// testable instead of reading ambient globals.
type Config struct {
	// StreamingEnabled turns the streaming path on.
	StreamingEnabled bool
	// StreamingSupported reports whether the runtime transport can deliver
	// chunked streams.
	StreamingSupported bool
}

// Coordinator is the top-level delivery entry point. It tries the streaming
// path first when available and transparently falls back to the retrying
// batch path when the stream fails before anything reached the sink.
type Coordinator struct {
	streamer  Streamer
	requester Requester
	retry     *Retry
	cfg       Config

	sessionTimeout time.Duration
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithRetry replaces the default retry executor.
func WithRetry(r *Retry) CoordinatorOption {
	return func(c *Coordinator) { c.retry = r }
}

// WithStreamTimeout sets the overall ceiling for streaming sessions.
func WithStreamTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.sessionTimeout = d }
}

// NewCoordinator creates a Coordinator over the given transports.
func NewCoordinator(streamer Streamer, requester Requester, cfg Config, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		streamer:  streamer,
		requester: requester,
		retry:     &Retry{},
		cfg:       cfg,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send delivers one query and returns its terminal Outcome. The context is
// the single cancellation handle for the whole call: cancelling it aborts
// whichever path is active, including a pending backoff wait. sink.Result
// is invoked exactly once, with the same Outcome Send returns.
func (c *Coordinator) Send(ctx context.Context, q Query, sink Sink) Outcome {
	out := c.deliver(ctx, q, sink)
	sink.Result(out)
	return out
}

func (c *Coordinator) deliver(ctx context.Context, q Query, sink Sink) Outcome {
	if !c.cfg.StreamingEnabled || !c.cfg.StreamingSupported {
		return c.fallback(ctx, q, sink)
	}

	var opts []SessionOption
	if c.sessionTimeout > 0 {
		opts = append(opts, WithSessionTimeout(c.sessionTimeout))
	}
	sess := NewSession(c.streamer, q, sink, opts...)
	out := sess.Run(ctx)

	if out.OK() || out.Kind == OutcomeAborted {
		return out
	}
	if sess.ReceivedFrames() {
		// Frames already reached the sink; a silent retry could replay
		// partial progress or double-charge a costly downstream call.
		return out
	}
	// Nothing was delivered: the sink cannot tell this path from a pure
	// batch run, so retry the whole query silently.
	return c.fallback(ctx, q, sink)
}

func (c *Coordinator) fallback(ctx context.Context, q Query, sink Sink) Outcome {
	return c.retry.Do(ctx, sink, func(ctx context.Context) (Result, error) {
		return c.requester.Request(ctx, q)
	})
}
