package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.SendFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, send, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, send bt.SendFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(send, "tester", relay.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopSend is a send function that resolves immediately with an empty result.
func nopSend(_ context.Context, _ relay.Query, sink relay.Sink) relay.Outcome {
	out := relay.Succeeded(relay.Result{})
	sink.Result(out)
	return out
}

// submitText types text into the model's input and presses Enter.
func submitText(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	m.Input.SetValue(text)
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}
