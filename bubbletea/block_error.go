package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/relay"
)

var _ MessageBlock = (*FailureBlock)(nil)

// FailureBlock renders the user-facing message of a failed delivery.
// Cancellations are rendered muted rather than as errors, since the user
// asked for them.
type FailureBlock struct {
	outcome relay.Outcome
	styles  Styles
}

// NewFailureBlock creates a FailureBlock.
func NewFailureBlock(outcome relay.Outcome, styles Styles) *FailureBlock {
	return &FailureBlock{outcome: outcome, styles: styles}
}

func (b *FailureBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *FailureBlock) View(width int) string {
	style := b.styles.Error
	if b.outcome.Kind == relay.OutcomeAborted {
		style = b.styles.Muted
	}
	content := style.Render(b.outcome.UserMessage())
	return lipgloss.NewStyle().Width(width).Render(content)
}
