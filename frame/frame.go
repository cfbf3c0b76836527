// Package frame implements incremental parsing of the chat backend's
// event-stream framing: repeated groups of an optional "event:" line,
// one or more "data:" lines, and a terminating blank line.
//
// The parser is push-based because the transport delivers arbitrarily-sized
// chunks whose boundaries are not aligned with lines or frames. State between
// calls lives entirely in the Assembler.
package frame

import "strings"

// DefaultEvent is the event type assigned to frames that carry no
// "event:" line.
const DefaultEvent = "status"

// Frame is one parsed protocol unit: an event type and the raw data lines
// that belong to it, in arrival order.
type Frame struct {
	Event string
	Data  []string
}

// Text returns the frame's data lines joined with newlines. Payloads may be
// multi-line structured text, so the separator matters.
func (f Frame) Text() string {
	return strings.Join(f.Data, "\n")
}

// Assembler turns a sequence of text chunks into complete frames. The zero
// value is ready to use. Not safe for concurrent use; each session owns its
// own Assembler.
type Assembler struct {
	pending  string // unconsumed tail of the last chunk, may end mid-line
	event    string
	hasEvent bool
	data     []string
}

// Feed consumes one chunk and returns the frames completed by it, in order.
// A frame is returned only once its terminating blank line has been seen;
// a trailing partial line is buffered, never treated as complete.
// Feed never fails: unrecognized lines are ignored for forward compatibility.
func (a *Assembler) Feed(chunk string) []Frame {
	buf := a.pending + chunk
	a.pending = ""

	var frames []Frame
	for {
		i := strings.IndexByte(buf, '\n')
		if i < 0 {
			a.pending = buf
			return frames
		}
		line := strings.TrimSuffix(buf[:i], "\r")
		buf = buf[i+1:]
		if f, ok := a.consumeLine(line); ok {
			frames = append(frames, f)
		}
	}
}

// Reset discards all buffered state. Called when a session ends so a reused
// assembler never leaks a partial frame into the next stream.
func (a *Assembler) Reset() {
	a.pending = ""
	a.event = ""
	a.hasEvent = false
	a.data = nil
}

func (a *Assembler) consumeLine(line string) (Frame, bool) {
	if line == "" {
		// Blank line terminates the frame under construction. Consecutive
		// separators (keepalives) produce nothing.
		if !a.hasEvent && len(a.data) == 0 {
			return Frame{}, false
		}
		ev := a.event
		if ev == "" {
			ev = DefaultEvent
		}
		f := Frame{Event: ev, Data: a.data}
		a.event = ""
		a.hasEvent = false
		a.data = nil
		return f, true
	}

	if line[0] == ':' {
		// Comment line.
		return Frame{}, false
	}

	if v, ok := fieldValue(line, "event:"); ok {
		a.event = v
		a.hasEvent = true
		return Frame{}, false
	}
	if v, ok := fieldValue(line, "data:"); ok {
		a.data = append(a.data, v)
		return Frame{}, false
	}

	// Unknown field: ignored for forward compatibility.
	return Frame{}, false
}

// fieldValue matches a "name:" prefix and strips at most one leading space
// from the value.
func fieldValue(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	v := line[len(prefix):]
	if strings.HasPrefix(v, " ") {
		v = v[1:]
	}
	return v, true
}
