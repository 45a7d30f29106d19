// Package markdown renders model captions to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package markdown

import (
	"bytes"
	"strings"

	"github.com/fwojciec/imagechat"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output
// wrapped to width. Captions are short, so only the constructs models emit
// in practice get dedicated styling; anything else is rendered as its text.
func Render(source string, width int, theme imagechat.Theme) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	w := &writer{styles: newStyles(theme), source: src, width: width}
	w.blocks(doc)
	return strings.TrimRight(w.buf.String(), "\n")
}

type writer struct {
	styles styles
	source []byte
	width  int
	buf    bytes.Buffer
}
