// Package markdown renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling. Answers from the
// chat backend are markdown; progress updates are plain text and bypass
// this package.
package markdown

import "github.com/fwojciec/relay"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme relay.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
