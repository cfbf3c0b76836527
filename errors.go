package relay

import (
	"context"
	"errors"
)

// ErrNoFinalFrame indicates the stream ended before a final frame arrived.
var ErrNoFinalFrame = errors.New("stream ended before a final frame")

// Failure is a classified delivery error. Transport layers produce it so the
// retry executor and coordinator can branch on Kind without knowing HTTP.
type Failure struct {
	Kind    OutcomeKind
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Message != "" {
		return string(f.Kind) + ": " + f.Message
	}
	return string(f.Kind)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error { return f.Err }

// ClassifyError maps any error to a failure Outcome. Context errors take
// precedence over wrapped Failures so an abort mid-request is never
// reported as a transport problem.
func ClassifyError(err error) Outcome {
	switch {
	case errors.Is(err, context.Canceled):
		return Failed(OutcomeAborted, "request cancelled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return Failed(OutcomeTimeout, "deadline exceeded", err)
	}
	var f *Failure
	if errors.As(err, &f) {
		return Failed(f.Kind, f.Message, err)
	}
	return Failed(OutcomeTransport, err.Error(), err)
}
