package bubbletea

import (
	"net/url"
	"path"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/imagechat"
)

// MessageBlock is a renderable element in the conversation.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// blockFor builds the block that displays a conversation message.
func blockFor(msg imagechat.Message, theme imagechat.Theme, styles Styles) MessageBlock {
	switch {
	case msg.Sender == imagechat.SenderUser:
		return NewUserMessageBlock(msg.Text, attachmentName(msg), styles)
	case msg.IsError:
		return NewErrorBlock(msg.Text, styles)
	default:
		return NewAssistantBlock(msg, theme, styles)
	}
}

// attachmentName returns the file name of the reference image previewed in a
// user message, or "".
func attachmentName(msg imagechat.Message) string {
	if len(msg.Images) == 0 {
		return ""
	}
	u, err := url.Parse(msg.Images[0].URL)
	if err != nil || u.Path == "" {
		return "imagem"
	}
	return path.Base(u.Path)
}
