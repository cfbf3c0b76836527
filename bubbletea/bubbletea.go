// Package bubbletea provides a Bubble Tea terminal UI for the relay chat
// client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
)

// SendFunc delivers one query, notifying the sink as the delivery
// progresses. It blocks until the terminal outcome or context cancellation.
// relay.Coordinator.Send satisfies this signature.
type SendFunc func(ctx context.Context, q relay.Query, sink relay.Sink) relay.Outcome

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown: when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ProgressMsg wraps a progress update for delivery to the Bubble Tea model.
type ProgressMsg struct {
	Update relay.Update
}

// ResultMsg signals that the delivery has produced its terminal outcome.
type ResultMsg struct {
	Outcome relay.Outcome
}
