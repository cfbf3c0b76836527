package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_OpenStream(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "event: final\ndata: {\"text\": \"ciao\"}\n\n")
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	body, err := client.OpenStream(context.Background(), relay.Query{
		Text:           "ciao",
		Sender:         "user-1",
		ConversationID: "conv-1",
		Context:        map[string]string{"lang": "it"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { body.Close() })

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "event: final")

	var q map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &q))
	assert.Equal(t, "ciao", q["message"])
	assert.Equal(t, "user-1", q["sender"])
	assert.Equal(t, "conv-1", q["conversation_id"])
}

func TestClient_OpenStream_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"status":"error","error":"upstream unavailable"}`)
	}))
	t.Cleanup(srv.Close)

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.OpenStream(context.Background(), relay.Query{Text: "hi"})

	var f *relay.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, relay.OutcomeServer, f.Kind)
	assert.Contains(t, f.Message, "upstream unavailable")
}

func TestClient_Request(t *testing.T) {
	t.Parallel()

	t.Run("typed result shape", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"ok","result":{"text":"Benvenuto!","intent":"saluto","suggestions":["Orari","Contatti"]}}`)
		}))
		t.Cleanup(srv.Close)

		client := backend.New(backend.WithBaseURL(srv.URL))
		res, err := client.Request(context.Background(), relay.Query{Text: "ciao"})
		require.NoError(t, err)
		assert.Equal(t, "Benvenuto!", res.Text)
		assert.Equal(t, "saluto", res.Intent)
		assert.Equal(t, []string{"Orari", "Contatti"}, res.Suggestions)
	})

	t.Run("legacy result shape", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"ok","result":{"content":"Benvenuto!","metadata":{"source":"faq"}}}`)
		}))
		t.Cleanup(srv.Close)

		client := backend.New(backend.WithBaseURL(srv.URL))
		res, err := client.Request(context.Background(), relay.Query{Text: "ciao"})
		require.NoError(t, err)
		assert.Equal(t, "Benvenuto!", res.Text)
		assert.Equal(t, "faq", res.Metadata["source"])
	})

	t.Run("error envelope", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"error","error":"classification failed"}`)
		}))
		t.Cleanup(srv.Close)

		client := backend.New(backend.WithBaseURL(srv.URL))
		_, err := client.Request(context.Background(), relay.Query{Text: "hi"})

		var f *relay.Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, relay.OutcomeServer, f.Kind)
		assert.Equal(t, "classification failed", f.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		}))
		t.Cleanup(srv.Close)

		client := backend.New(backend.WithBaseURL(srv.URL))
		_, err := client.Request(context.Background(), relay.Query{Text: "hi"})

		var f *relay.Failure
		require.ErrorAs(t, err, &f)
		assert.Equal(t, relay.OutcomeServer, f.Kind)
	})
}

func TestClient_StatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   relay.OutcomeKind
	}{
		{"internal server error", http.StatusInternalServerError, relay.OutcomeServer},
		{"bad gateway", http.StatusBadGateway, relay.OutcomeServer},
		{"service unavailable", http.StatusServiceUnavailable, relay.OutcomeServer},
		{"request timeout", http.StatusRequestTimeout, relay.OutcomeTimeout},
		{"bad request", http.StatusBadRequest, relay.OutcomeClient},
		{"unprocessable entity", http.StatusUnprocessableEntity, relay.OutcomeClient},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			client := backend.New(backend.WithBaseURL(srv.URL))
			_, err := client.Request(context.Background(), relay.Query{Text: "hi"})

			var f *relay.Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.want, f.Kind)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Server started and immediately closed: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.Request(context.Background(), relay.Query{Text: "hi"})

	var f *relay.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, relay.OutcomeTransport, f.Kind)
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.Request(ctx, relay.Query{Text: "hi"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_ContextDeadline(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := backend.New(backend.WithBaseURL(srv.URL))
	_, err := client.Request(ctx, relay.Query{Text: "hi"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
