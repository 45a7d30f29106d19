package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/imagechat"
	"github.com/yuin/goldmark/ast"
)

type styles struct {
	strong    lipgloss.Style
	emphasis  lipgloss.Style
	heading   lipgloss.Style
	code      lipgloss.Style
	muted     lipgloss.Style
	link      lipgloss.Style
	quoteMark lipgloss.Style
}

func newStyles(theme imagechat.Theme) styles {
	return styles{
		strong:    lipgloss.NewStyle().Bold(true),
		emphasis:  lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		code:      lipgloss.NewStyle().Foreground(color(theme.Accent)),
		muted:     lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		link:      lipgloss.NewStyle().Underline(true),
		quoteMark: lipgloss.NewStyle().Foreground(color(theme.Muted)),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (w *writer) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, w.width, "")
		if n.NextSibling() != nil {
			w.buf.WriteString("\n")
		}
	}
}

// block writes one block node. prefix is prepended to every output line and
// width is the room left after it.
func (w *writer) block(n ast.Node, width int, prefix string) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.wrapped(w.inline(n), width, prefix, prefix)
	case *ast.Heading:
		w.wrapped(w.styles.heading.Render(w.inline(n)), width, prefix, prefix)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.code(n, prefix)
	case *ast.List:
		w.list(n, width, prefix)
	case *ast.Blockquote:
		mark := w.styles.quoteMark.Render("│") + " "
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.block(c, width-2, prefix+mark)
		}
	case *ast.ThematicBreak:
		w.buf.WriteString(prefix + w.styles.muted.Render(strings.Repeat("─", max(width, 3))) + "\n")
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.block(c, width, prefix)
		}
	}
}

// wrapped word-wraps content to width, writing first before the first line
// and rest before every following line.
func (w *writer) wrapped(content string, width int, first, rest string) {
	width = max(width, 10)
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(content), "\n")
	for i, line := range lines {
		if i == 0 {
			w.buf.WriteString(first)
		} else {
			w.buf.WriteString(rest)
		}
		w.buf.WriteString(strings.TrimRight(line, " "))
		w.buf.WriteString("\n")
	}
}

// code writes code lines verbatim behind a gutter. Code is never reflowed.
func (w *writer) code(n ast.Node, prefix string) {
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if lang := fenced.Language(w.source); len(lang) > 0 {
			w.buf.WriteString(prefix + w.styles.muted.Render(string(lang)) + "\n")
		}
	}
	gutter := prefix + w.styles.muted.Render("│") + " "
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		w.buf.WriteString(gutter + strings.TrimRight(string(seg.Value(w.source)), "\n") + "\n")
	}
}

func (w *writer) list(n *ast.List, width int, prefix string) {
	num := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat(" ", len(marker))
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				head := prefix + indent
				if first {
					head = prefix + marker
				}
				w.wrapped(w.inline(c), width-len(marker), head, prefix+indent)
			default:
				if first {
					w.buf.WriteString(prefix + marker + "\n")
				}
				w.block(c, width-len(marker), prefix+indent)
			}
			first = false
		}
	}
}

// inline renders the inline children of n into a single styled string.
func (w *writer) inline(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &buf)
	}
	return buf.String()
}

func (w *writer) span(n ast.Node, buf *bytes.Buffer) {
	switch n := n.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(w.source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		if n.Level >= 2 {
			buf.WriteString(w.styles.strong.Render(w.inline(n)))
		} else {
			buf.WriteString(w.styles.emphasis.Render(w.inline(n)))
		}
	case *ast.CodeSpan:
		buf.WriteString(w.styles.code.Render(w.inline(n)))
	case *ast.Link:
		buf.WriteString(w.styles.link.Render(w.inline(n)))
		buf.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(w.styles.link.Render(string(n.URL(w.source))))
	case *ast.Image:
		// Inline images cannot be shown; keep the alt text.
		buf.WriteString(w.styles.muted.Render("[" + w.inline(n) + "]"))
	case *ast.RawHTML:
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(w.source))
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, buf)
		}
	}
}
