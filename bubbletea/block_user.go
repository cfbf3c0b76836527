package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders one submitted query, prefixed with the sender
// identity that accompanies it on the wire.
type UserMessageBlock struct {
	sender string
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock for the given sender.
func NewUserMessageBlock(sender, text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{sender: sender, text: text, styles: styles}
}

func (b *UserMessageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *UserMessageBlock) View(width int) string {
	prompt := b.sender + " > "
	if b.sender == "" {
		prompt = "> "
	}
	content := b.styles.UserMsg.Render(prompt) + b.text
	return lipgloss.NewStyle().Width(width).Render(content)
}
