package relay

import "encoding/json"

// Stage identifies the semantic kind of a progress notification.
type Stage string

const (
	StageStatus    Stage = "status"
	StageReasoning Stage = "reasoning"
)

// Update is one progress notification. Message always holds the frame's
// joined data; Payload is additionally set when the data parses as a JSON
// document, so structured update consumers need not re-parse.
type Update struct {
	Stage   Stage
	Message string
	Payload json.RawMessage
}

// Sink receives delivery notifications. Progress is called zero or more
// times per Send; Result is called exactly once, with the terminal outcome.
// Implementations must not block: calls happen inline on the delivery path.
type Sink interface {
	Progress(Update)
	Result(Outcome)
}

// NopSink discards all notifications.
type NopSink struct{}

func (NopSink) Progress(Update) {}
func (NopSink) Result(Outcome)  {}

// Interface compliance check.
var _ Sink = NopSink{}
