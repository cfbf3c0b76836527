package frame_test

import (
	"testing"

	"github.com/fwojciec/relay/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembler_SingleFrame(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event: final\ndata: hello\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, frame.Frame{Event: "final", Data: []string{"hello"}}, frames[0])
}

func TestAssembler_DefaultEventType(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("data: processing\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, "status", frames[0].Event)
}

func TestAssembler_MultiLineDataJoinedWithNewline(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("data: {\"text\":\ndata: \"hi\"}\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, []string{`{"text":`, `"hi"}`}, frames[0].Data)
	assert.Equal(t, "{\"text\":\n\"hi\"}", frames[0].Text())
}

func TestAssembler_PartialLineHeldBack(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("data: hel")
	assert.Empty(t, frames)

	frames = a.Feed("lo\n\n")
	require.Len(t, frames, 1)
	assert.Equal(t, []string{"hello"}, frames[0].Data)
}

func TestAssembler_UnterminatedFrameNeverEmitted(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event: final\ndata: pending answer\n")
	assert.Empty(t, frames)
}

func TestAssembler_MultipleFramesInOneChunk(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("data: one\n\nevent: final\ndata: two\n\n")

	require.Len(t, frames, 2)
	assert.Equal(t, frame.Frame{Event: "status", Data: []string{"one"}}, frames[0])
	assert.Equal(t, frame.Frame{Event: "final", Data: []string{"two"}}, frames[1])
}

func TestAssembler_ChunkBoundaryInvariance(t *testing.T) {
	t.Parallel()

	input := "event: status\ndata: classificando\n\n" +
		"event: reasoning\ndata: step one\ndata: step two\n\n" +
		"data: untyped\n\n" +
		"event: final\ndata: {\"text\": \"Benvenuto!\",\ndata: \"intent\": \"saluto\"}\n\n"

	want := func() []frame.Frame {
		var a frame.Assembler
		return a.Feed(input)
	}()
	require.Len(t, want, 4)

	// Split at every possible byte offset across two calls.
	for cut := 0; cut <= len(input); cut++ {
		var a frame.Assembler
		got := a.Feed(input[:cut])
		got = append(got, a.Feed(input[cut:])...)
		require.Equal(t, want, got, "split at offset %d", cut)
	}

	// Feed one byte at a time.
	var a frame.Assembler
	var got []frame.Frame
	for i := 0; i < len(input); i++ {
		got = append(got, a.Feed(input[i:i+1])...)
	}
	assert.Equal(t, want, got)
}

func TestAssembler_CRLFLines(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event: final\r\ndata: ok\r\n\r\n")

	require.Len(t, frames, 1)
	assert.Equal(t, frame.Frame{Event: "final", Data: []string{"ok"}}, frames[0])
}

func TestAssembler_IgnoresCommentsAndUnknownFields(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed(": keepalive\nid: 42\nretry: 1000\ndata: ok\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, []string{"ok"}, frames[0].Data)
}

func TestAssembler_BlankSeparatorsEmitNothing(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("\n\n\ndata: ok\n\n\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, []string{"ok"}, frames[0].Data)
}

func TestAssembler_OptionalSpaceAfterColon(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event:final\ndata:no space\ndata:  two spaces\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, "final", frames[0].Event)
	assert.Equal(t, []string{"no space", " two spaces"}, frames[0].Data)
}

func TestAssembler_EventWithoutData(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event: done\n\n")

	require.Len(t, frames, 1)
	assert.Equal(t, frame.Frame{Event: "done", Data: nil}, frames[0])
}

func TestAssembler_Reset(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	a.Feed("event: final\ndata: partial")
	a.Reset()

	// State from before Reset must not leak into the next stream.
	frames := a.Feed("data: fresh\n\n")
	require.Len(t, frames, 1)
	assert.Equal(t, frame.Frame{Event: "status", Data: []string{"fresh"}}, frames[0])
}

func TestAssembler_EventTypeResetsBetweenFrames(t *testing.T) {
	t.Parallel()
	var a frame.Assembler

	frames := a.Feed("event: reasoning\ndata: thinking\n\ndata: next\n\n")

	require.Len(t, frames, 2)
	assert.Equal(t, "reasoning", frames[0].Event)
	assert.Equal(t, "status", frames[1].Event)
}
