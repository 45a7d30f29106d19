package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/imagechat"
	"github.com/fwojciec/imagechat/markdown"
)

var _ MessageBlock = (*AssistantBlock)(nil)

const assistantLabel = "IA"

// AssistantBlock renders an assistant reply: the caption as markdown followed
// by one numbered line per image. The caption is rendered once per width and
// cached.
type AssistantBlock struct {
	msg    imagechat.Message
	theme  imagechat.Theme
	styles Styles

	render        func(source string, width int, theme imagechat.Theme) string
	cached        bool
	cachedWidth   int
	cachedCaption string
}

// NewAssistantBlock creates an AssistantBlock for msg.
func NewAssistantBlock(msg imagechat.Message, theme imagechat.Theme, styles Styles) *AssistantBlock {
	return &AssistantBlock{msg: msg, theme: theme, styles: styles, render: markdown.Render}
}

func (b *AssistantBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantBlock) View(width int) string {
	if !b.cached || b.cachedWidth != width {
		b.cachedCaption = b.render(b.msg.Text, width, b.theme)
		b.cachedWidth = width
		b.cached = true
	}

	var sb strings.Builder
	sb.WriteString(b.styles.Muted.Render(assistantLabel))
	if b.cachedCaption != "" {
		sb.WriteString("\n")
		sb.WriteString(b.cachedCaption)
	}
	for i, img := range b.msg.Images {
		sb.WriteString("\n")
		sb.WriteString(b.styles.Image.Render(fmt.Sprintf("  [%d] %s", i+1, imagechat.DownloadName(b.msg.ID, i))))
		sb.WriteString(b.styles.Muted.Render(fmt.Sprintf("  %s, %s", mimeOrUnknown(img.MimeType), humanSize(payloadSize(img.URL)))))
	}
	return sb.String()
}

func mimeOrUnknown(mimeType string) string {
	if mimeType == "" {
		return "?"
	}
	return mimeType
}

// payloadSize returns the decoded size of a base64 data URI, or 0 for any
// other URL.
func payloadSize(uri string) int {
	if !strings.HasPrefix(uri, "data:") {
		return 0
	}
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return 0
	}
	n := len(payload) / 4 * 3
	return n - strings.Count(payload[max(len(payload)-2, 0):], "=")
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
