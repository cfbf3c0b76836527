package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/relay"
)

// Interface compliance checks.
var (
	_ relay.Streamer  = (*Client)(nil)
	_ relay.Requester = (*Client)(nil)
)

// maxErrorBody caps how much of an error response body is read for the
// failure message.
const maxErrorBody = 4096

// Client talks to the chat service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new backend [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OpenStream starts a streaming request and returns the raw response body.
// Chunk segmentation and frame assembly are the session's concern; the
// client only classifies connection-level failures.
func (c *Client) OpenStream(ctx context.Context, q relay.Query) (io.ReadCloser, error) {
	resp, err := c.post(ctx, streamPath, q, "text/event-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusFailure(resp)
	}
	return resp.Body, nil
}

// Request executes one batch request and returns the decoded result.
func (c *Client) Request(ctx context.Context, q relay.Query) (relay.Result, error) {
	resp, err := c.post(ctx, chatPath, q, "application/json")
	if err != nil {
		return relay.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return relay.Result{}, statusFailure(resp)
	}

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return relay.Result{}, &relay.Failure{
			Kind:    relay.OutcomeServer,
			Message: fmt.Sprintf("malformed response: %v", err),
			Err:     err,
		}
	}
	if env.Status == "error" || env.Error != "" {
		msg := env.Error
		if msg == "" {
			msg = "the service reported an error"
		}
		return relay.Result{}, &relay.Failure{Kind: relay.OutcomeServer, Message: msg}
	}

	res, err := relay.DecodeResult(env.Result)
	if err != nil {
		return relay.Result{}, &relay.Failure{
			Kind:    relay.OutcomeServer,
			Message: err.Error(),
			Err:     err,
		}
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, q relay.Query, accept string) (*http.Response, error) {
	body, err := json.Marshal(apiQuery{
		Message:        q.Text,
		Sender:         q.Sender,
		ConversationID: q.ConversationID,
		Context:        q.Context,
	})
	if err != nil {
		return nil, &relay.Failure{Kind: relay.OutcomeClient, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &relay.Failure{Kind: relay.OutcomeClient, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Let relay.ClassifyError distinguish abort from timeout.
			return nil, ctx.Err()
		}
		return nil, &relay.Failure{Kind: relay.OutcomeTransport, Message: err.Error(), Err: err}
	}
	return resp, nil
}

// statusFailure classifies a non-200 response. 5xx is a server failure
// (retryable downstream), 408 maps to the timeout class, and the remaining
// 4xx are client failures.
func statusFailure(resp *http.Response) *relay.Failure {
	kind := relay.OutcomeClient
	switch {
	case resp.StatusCode >= 500:
		kind = relay.OutcomeServer
	case resp.StatusCode == http.StatusRequestTimeout:
		kind = relay.OutcomeTimeout
	}

	msg := http.StatusText(resp.StatusCode)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var env apiEnvelope
		if jsonErr := json.Unmarshal(body, &env); jsonErr == nil && env.Error != "" {
			msg = env.Error
		}
	}
	return &relay.Failure{
		Kind:    kind,
		Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, msg),
	}
}
