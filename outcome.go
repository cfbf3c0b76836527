package relay

// OutcomeKind classifies how a delivery ended.
type OutcomeKind string

const (
	OutcomeSuccess   OutcomeKind = "success"
	OutcomeTimeout   OutcomeKind = "timeout"
	OutcomeTransport OutcomeKind = "transport"
	OutcomeServer    OutcomeKind = "server"
	OutcomeClient    OutcomeKind = "client"
	OutcomeAborted   OutcomeKind = "aborted"
)

// Retryable reports whether another attempt with the same query could
// plausibly succeed. Timeouts are deliberately non-retryable: retrying
// rarely helps and risks duplicate side effects on the server.
func (k OutcomeKind) Retryable() bool {
	return k == OutcomeTransport || k == OutcomeServer
}

// Outcome is the terminal, classified result of one delivery. Exactly one
// Outcome reaches the sink per Send call, whichever path produced it.
type Outcome struct {
	Kind    OutcomeKind
	Result  Result // valid only when Kind == OutcomeSuccess
	Message string // failure detail, empty on success
	Err     error  // underlying cause, may be nil
}

// OK reports whether the delivery succeeded.
func (o Outcome) OK() bool { return o.Kind == OutcomeSuccess }

// Succeeded wraps a Result in a successful Outcome.
func Succeeded(r Result) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: r}
}

// Failed builds a classified failure Outcome.
func Failed(kind OutcomeKind, message string, err error) Outcome {
	return Outcome{Kind: kind, Message: message, Err: err}
}

// UserMessage returns the one human-readable message shown for this outcome.
// Aborts intentionally read as a neutral notice, not an error.
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case OutcomeSuccess:
		return o.Result.Text
	case OutcomeTimeout:
		return "The service is taking too long to respond. Please try again later."
	case OutcomeClient:
		return "The request could not be processed. Please rephrase and try again."
	case OutcomeAborted:
		return "Request cancelled."
	default:
		return "Something went wrong while contacting the service. Please try again."
	}
}
