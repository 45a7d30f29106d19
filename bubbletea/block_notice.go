package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*NoticeBlock)(nil)

// NoticeBlock renders local feedback that is not part of the conversation,
// such as saved-file confirmations and command errors.
type NoticeBlock struct {
	text  string
	style lipgloss.Style
}

// NewNoticeBlock creates an informational NoticeBlock.
func NewNoticeBlock(text string, styles Styles) *NoticeBlock {
	return &NoticeBlock{text: text, style: styles.Notice}
}

// NewSuccessBlock creates a NoticeBlock for a completed action.
func NewSuccessBlock(text string, styles Styles) *NoticeBlock {
	return &NoticeBlock{text: text, style: styles.Success}
}

func (b *NoticeBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *NoticeBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.style.Render("· " + b.text))
}
