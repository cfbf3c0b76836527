package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/markdown"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders a completed response with markdown formatting and
// any follow-up suggestions the backend returned. The answer text is
// static once the turn resolves, so renders are cached per width.
type AnswerBlock struct {
	result relay.Result
	theme  relay.Theme
	styles Styles

	renderedByWidth map[int]string
}

// NewAnswerBlock creates an AnswerBlock for a resolved result.
func NewAnswerBlock(result relay.Result, theme relay.Theme, styles Styles) *AnswerBlock {
	return &AnswerBlock{
		result:          result,
		theme:           theme,
		styles:          styles,
		renderedByWidth: make(map[int]string),
	}
}

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	if cached, ok := b.renderedByWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.result.Text, width, b.theme)
	if len(b.result.Suggestions) > 0 {
		var s strings.Builder
		s.WriteString(rendered)
		s.WriteString("\n")
		for _, suggestion := range b.result.Suggestions {
			s.WriteString("\n")
			s.WriteString(b.styles.Suggestion.Render("→ " + suggestion))
		}
		rendered = s.String()
	}
	b.renderedByWidth[width] = rendered
	return rendered
}
