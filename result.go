package relay

import (
	"encoding/json"
	"fmt"
)

// Result is the structured answer produced by a completed delivery.
// Both backend payload shapes normalize into this one type; nothing past the
// parse boundary branches on which shape arrived.
type Result struct {
	Text        string
	Intent      string
	Suggestions []string
	Metadata    map[string]any
}

// typedResult is the primary payload shape emitted by current backends.
type typedResult struct {
	Text        string         `json:"text"`
	Intent      string         `json:"intent,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// legacyResult is the flat shape emitted by older backends.
type legacyResult struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DecodeResult parses a final payload, accepting the typed shape first and
// falling back to the legacy flat shape.
func DecodeResult(data []byte) (Result, error) {
	var typed typedResult
	if err := json.Unmarshal(data, &typed); err == nil && typed.Text != "" {
		return Result{
			Text:        typed.Text,
			Intent:      typed.Intent,
			Suggestions: typed.Suggestions,
			Metadata:    typed.Metadata,
		}, nil
	}

	var legacy legacyResult
	if err := json.Unmarshal(data, &legacy); err == nil && legacy.Content != "" {
		return Result{
			Text:     legacy.Content,
			Metadata: legacy.Metadata,
		}, nil
	}

	return Result{}, fmt.Errorf("relay: unrecognized result payload: %.80s", string(data))
}
