package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// SetRunning puts the model in a running state for tests.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel puts the model in a running state with a cancel
// function for tests.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}
