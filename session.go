package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/relay/frame"
)

// SessionState tracks a streaming session through its lifecycle.
type SessionState int

const (
	StateIdle       SessionState = iota // Before Run is called.
	StateConnecting                     // Opening the stream.
	StateReceiving                      // Consuming chunks and frames.
	StateFinalizing                     // Final frame seen, parsing payload.
	StateCompleted                      // Terminal: final result produced.
	StateFailed                         // Terminal: classified failure.
	StateAborted                        // Terminal: caller cancelled.
)

const (
	defaultSessionTimeout = 120 * time.Second
	readChunkSize         = 4096
)

// frameKind is the semantic meaning of a frame's event type.
type frameKind int

const (
	kindStatus frameKind = iota
	kindReasoning
	kindFinal
	kindError
)

// frameKinds maps wire event types to semantics. Unknown types fall through
// to kindStatus so new backend event types degrade to low-priority updates
// instead of errors.
var frameKinds = map[string]frameKind{
	"status":    kindStatus,
	"progress":  kindStatus,
	"reasoning": kindReasoning,
	"thinking":  kindReasoning,
	"final":     kindFinal,
	"result":    kindFinal,
	"error":     kindError,
}

// Session consumes one query's stream: it reads chunks, assembles frames,
// dispatches progress to the sink, and produces a single terminal Outcome.
// One Session serves exactly one Run; sessions are not reused.
type Session struct {
	streamer Streamer
	query    Query
	sink     Sink

	asm      frame.Assembler
	state    SessionState
	received bool
	timeout  time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionTimeout sets the overall ceiling for the whole session,
// distinct from any per-chunk read deadline the transport may apply.
func WithSessionTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.timeout = d }
}

// NewSession creates a Session for one query.
func NewSession(streamer Streamer, q Query, sink Sink, opts ...SessionOption) *Session {
	s := &Session{
		streamer: streamer,
		query:    q,
		sink:     sink,
		state:    StateIdle,
		timeout:  defaultSessionTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the session's current state.
func (s *Session) State() SessionState { return s.state }

// ReceivedFrames reports whether any frame was processed. The coordinator
// uses it to decide whether a silent fallback is still safe: once the sink
// has seen frames, a retried query could duplicate visible progress.
func (s *Session) ReceivedFrames() bool { return s.received }

// Run consumes the stream until a terminal frame, transport end, or abort.
// Every failure is converted into a classified Outcome; Run never calls
// sink.Result: that is the coordinator's job, exactly once per Send.
func (s *Session) Run(ctx context.Context) Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.state = StateConnecting
	body, err := s.streamer.OpenStream(ctx, s.query)
	if err != nil {
		return s.fail(ClassifyError(err))
	}
	defer body.Close()
	defer s.asm.Reset()

	s.state = StateReceiving
	buf := make([]byte, readChunkSize)
	for {
		if ctx.Err() != nil {
			return s.fail(ClassifyError(ctx.Err()))
		}

		n, readErr := body.Read(buf)
		// A read can race with cancellation and still return data. Re-check
		// before dispatching so no sink call happens after an abort.
		if ctx.Err() != nil {
			return s.fail(ClassifyError(ctx.Err()))
		}
		if n > 0 {
			for _, f := range s.asm.Feed(string(buf[:n])) {
				if out, done := s.handleFrame(f); done {
					return out
				}
			}
		}
		if readErr == io.EOF {
			return s.fail(Failed(OutcomeTransport, ErrNoFinalFrame.Error(), ErrNoFinalFrame))
		}
		if readErr != nil {
			return s.fail(ClassifyError(readErr))
		}
	}
}

// handleFrame processes one frame. It returns done=true with the terminal
// outcome when the frame ends the session.
func (s *Session) handleFrame(f frame.Frame) (Outcome, bool) {
	s.received = true

	switch frameKinds[f.Event] {
	case kindFinal:
		s.state = StateFinalizing
		res, err := DecodeResult([]byte(f.Text()))
		if err != nil {
			return s.fail(Failed(OutcomeServer, fmt.Sprintf("malformed final payload: %v", err), err)), true
		}
		s.state = StateCompleted
		return Succeeded(res), true

	case kindError:
		msg := f.Text()
		if msg == "" {
			msg = "the service reported an error"
		}
		return s.fail(Failed(OutcomeServer, msg, nil)), true

	case kindReasoning:
		s.sink.Progress(makeUpdate(StageReasoning, f))
		return Outcome{}, false

	default:
		s.sink.Progress(makeUpdate(StageStatus, f))
		return Outcome{}, false
	}
}

// makeUpdate builds a progress Update, attaching the raw payload when the
// data parses as a JSON document.
func makeUpdate(stage Stage, f frame.Frame) Update {
	u := Update{Stage: stage, Message: f.Text()}
	if raw := []byte(u.Message); len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') && json.Valid(raw) {
		u.Payload = raw
	}
	return u
}

func (s *Session) fail(out Outcome) Outcome {
	if out.Kind == OutcomeAborted {
		s.state = StateAborted
	} else {
		s.state = StateFailed
	}
	return out
}
