package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/relay"
)

var _ MessageBlock = (*ProgressBlock)(nil)

// ProgressBlock accumulates the progress updates of a single delivery.
// Status and reasoning lines keep arriving until the turn resolves; the
// block stays in the transcript afterwards so a failed turn still shows
// how far the backend got.
type ProgressBlock struct {
	updates []relay.Update
	styles  Styles
}

// NewProgressBlock creates an empty ProgressBlock.
func NewProgressBlock(styles Styles) *ProgressBlock {
	return &ProgressBlock{styles: styles}
}

// Append records a progress update.
func (b *ProgressBlock) Append(u relay.Update) {
	b.updates = append(b.updates, u)
}

// Empty reports whether the block has received any updates.
func (b *ProgressBlock) Empty() bool { return len(b.updates) == 0 }

func (b *ProgressBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ProgressBlock) View(width int) string {
	if len(b.updates) == 0 {
		return ""
	}
	lines := make([]string, 0, len(b.updates))
	for _, u := range b.updates {
		switch u.Stage {
		case relay.StageReasoning:
			lines = append(lines, b.styles.Muted.Render("  "+u.Message))
		default:
			lines = append(lines, b.styles.Progress.Render("• ")+u.Message)
		}
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().Width(width).Render(content)
}
