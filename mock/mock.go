// Package mock provides test doubles for relay interfaces using function
// fields.
package mock

import (
	"context"
	"io"
	"strings"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Streamer  = (*Streamer)(nil)
	_ relay.Requester = (*Requester)(nil)
	_ relay.Sink      = (*Sink)(nil)
)

// Streamer is a test double for relay.Streamer.
// Set OpenStreamFn before calling OpenStream.
type Streamer struct {
	OpenStreamFn func(ctx context.Context, q relay.Query) (io.ReadCloser, error)
}

// OpenStream delegates to OpenStreamFn.
func (s *Streamer) OpenStream(ctx context.Context, q relay.Query) (io.ReadCloser, error) {
	return s.OpenStreamFn(ctx, q)
}

// Requester is a test double for relay.Requester.
// Set RequestFn before calling Request. Calls counts invocations.
type Requester struct {
	RequestFn func(ctx context.Context, q relay.Query) (relay.Result, error)
	Calls     int
}

// Request delegates to RequestFn.
func (r *Requester) Request(ctx context.Context, q relay.Query) (relay.Result, error) {
	r.Calls++
	return r.RequestFn(ctx, q)
}

// Sink records every notification it receives. The zero value is ready to
// use; tests inspect Updates and Outcomes after the call under test.
type Sink struct {
	Updates  []relay.Update
	Outcomes []relay.Outcome
}

// Progress records the update.
func (s *Sink) Progress(u relay.Update) {
	s.Updates = append(s.Updates, u)
}

// Result records the outcome.
func (s *Sink) Result(o relay.Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// ChunkReader returns an io.ReadCloser that yields the given chunks one per
// Read call, then EOF. It simulates a transport whose chunk boundaries are
// not aligned with lines or frames.
func ChunkReader(chunks ...string) io.ReadCloser {
	return &chunkReader{chunks: chunks}
}

type chunkReader struct {
	chunks []string
	closed bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.closed || len(r.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := r.chunks[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		r.chunks[0] = chunk[n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed = true
	return nil
}

// ErrReader returns an io.ReadCloser that yields the given text and then
// fails with err instead of EOF, simulating a dropped connection.
func ErrReader(text string, err error) io.ReadCloser {
	return &errReader{r: strings.NewReader(text), err: err}
}

type errReader struct {
	r   *strings.Reader
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err == io.EOF {
		return n, r.err
	}
	return n, err
}

func (r *errReader) Close() error { return nil }
