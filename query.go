package relay

// Query is one user message to deliver to the chat backend.
// ConversationID and Context are opaque to this package and passed through
// to the backend unmodified.
type Query struct {
	Text           string
	Sender         string
	ConversationID string
	Context        map[string]string
}
