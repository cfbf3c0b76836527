// Command relay is a terminal chat client for a streaming chat backend.
//
// Usage:
//
//	relay [flags]
//
// Flags:
//
//	-url string              Backend base URL (default: RELAY_URL or http://localhost:8000)
//	-sender string           Sender name attached to queries
//	-no-stream               Disable streaming and use plain request/response
//	-stream-timeout duration Overall ceiling for one streaming session
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/backend"
	bt "github.com/fwojciec/relay/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		baseURL       = flag.String("url", "", "Backend base URL (defaults to RELAY_URL or http://localhost:8000)")
		sender        = flag.String("sender", "user", "Sender name attached to queries")
		noStream      = flag.Bool("no-stream", false, "Disable streaming and use plain request/response")
		streamTimeout = flag.Duration("stream-timeout", 2*time.Minute, "Overall ceiling for one streaming session")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Env var is read here and passed as a value.
	url := *baseURL
	if url == "" {
		url = os.Getenv("RELAY_URL")
	}

	var opts []backend.Option
	if url != "" {
		opts = append(opts, backend.WithBaseURL(url))
	}
	client := backend.New(opts...)

	coord := relay.NewCoordinator(client, client, relay.Config{
		StreamingEnabled:   !*noStream,
		StreamingSupported: true,
	}, relay.WithStreamTimeout(*streamTimeout))

	// Create and run TUI.
	m := bt.New(coord.Send, *sender, relay.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	return nil
}
