package relay

import (
	"context"
	"io"
)

// Streamer opens the streaming channel for one query. The returned reader
// yields raw text chunks whose boundaries carry no meaning; the caller owns
// the reader and must close it. Errors should be *Failure where the cause
// is classifiable.
type Streamer interface {
	OpenStream(ctx context.Context, q Query) (io.ReadCloser, error)
}

// Requester executes one non-streaming request for a query and returns the
// complete result. Errors should be *Failure where the cause is
// classifiable; the retry executor branches on the failure kind.
type Requester interface {
	Request(ctx context.Context, q Query) (Result, error)
}
