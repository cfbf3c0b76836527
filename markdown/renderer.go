package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/relay"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type ansiRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme relay.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, &buf)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		inline := r.collectInline(n, source)
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(inline))
		r.endBlock(n, buf)

	case *ast.Heading:
		styled := r.accent.Render(r.collectInline(n, source))
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(styled))
		r.endBlock(n, buf)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteByte('\n')
		}
		r.writeCodeLines(n, source, buf)
		r.endBlock(n, buf)

	case *ast.CodeBlock:
		r.writeCodeLines(n, source, buf)
		r.endBlock(n, buf)

	case *ast.List:
		r.renderList(n, source, width, buf, 0)
		r.endBlock(n, buf)

	case *ast.ThematicBreak:
		buf.WriteString("---\n")
		r.endBlock(n, buf)

	default:
		// Blockquotes and other unrecognized blocks: recurse into children
		// unstyled. They are uncommon in backend answers.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderBlock(c, source, width, buf)
		}
	}
}

// endBlock writes the trailing newline plus a blank separator line unless
// this is the last block.
func (r *ansiRenderer) endBlock(node ast.Node, buf *bytes.Buffer) {
	buf.WriteByte('\n')
	if node.NextSibling() != nil {
		buf.WriteByte('\n')
	}
}

func (r *ansiRenderer) writeCodeLines(node ast.Node, source []byte, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.WriteString(gutter)
		buf.WriteString(strings.TrimRight(string(line.Value(source)), "\n"))
		buf.WriteByte('\n')
	}
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	itemNum := 0
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			itemNum++
			marker = fmt.Sprintf("%d. ", node.Start+itemNum-1)
		}
		indent := strings.Repeat("  ", depth)

		var itemBuf bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				itemBuf.WriteString(r.collectInline(in, source))
			case *ast.List:
				if itemBuf.Len() > 0 {
					r.writeListItem(buf, indent, marker, itemBuf.String(), width)
					itemBuf.Reset()
				}
				r.renderList(in, source, width, buf, depth+1)
				marker = strings.Repeat(" ", len(marker))
			default:
				r.renderBlock(ic, source, width, &itemBuf)
			}
		}
		if itemBuf.Len() > 0 {
			r.writeListItem(buf, indent, marker, itemBuf.String(), width)
		}
	}
}

// writeListItem writes a list item with continuation-line indentation.
func (r *ansiRenderer) writeListItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	prefix := indent + marker
	itemWidth := width - len(prefix)
	if itemWidth < 10 {
		itemWidth = 10
	}
	wrapped := lipgloss.NewStyle().Width(itemWidth).Render(content)
	continuation := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(prefix)
		} else {
			buf.WriteString(continuation)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

// collectInline recursively collects styled inline text from a node's children.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.bold.Render(r.collectInline(n, source)))

	case *ast.Link:
		buf.WriteString(r.underline.Render(r.collectInline(n, source)))
		buf.WriteByte(' ')
		buf.WriteString(r.muted.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}
