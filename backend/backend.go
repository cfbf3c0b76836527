// Package backend implements [relay.Streamer] and [relay.Requester] for the
// chat service's HTTP API.
//
// The streaming endpoint answers with a live event-frame stream (parsed
// incrementally by relay's session); the batch endpoint answers with a single
// JSON envelope. Both accept the same query shape.
package backend

import "encoding/json"

const (
	defaultBaseURL = "http://localhost:8000"
	streamPath     = "/api/chat/stream"
	chatPath       = "/api/chat"
)

// apiQuery is the JSON body sent to both endpoints.
type apiQuery struct {
	Message        string            `json:"message"`
	Sender         string            `json:"sender"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Context        map[string]string `json:"context,omitempty"`
}

// apiEnvelope is the batch endpoint's response document.
type apiEnvelope struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}
