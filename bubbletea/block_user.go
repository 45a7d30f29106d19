package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user prompt with a "> " prefix and, when a
// reference image was sent, an attachment line.
type UserMessageBlock struct {
	text       string
	attachment string
	styles     Styles
}

// NewUserMessageBlock creates a UserMessageBlock. attachment is the reference
// image's file name, or "".
func NewUserMessageBlock(text, attachment string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, attachment: attachment, styles: styles}
}

func (b *UserMessageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *UserMessageBlock) View(width int) string {
	var lines []string
	lines = append(lines, b.styles.Muted.Render("Você"))
	if b.text != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(b.styles.UserMsg.Render("> ")+b.text))
	}
	if b.attachment != "" {
		lines = append(lines, b.styles.Muted.Render("  referência: "+b.attachment))
	}
	return strings.Join(lines, "\n")
}
