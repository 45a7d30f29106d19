package bubbletea

import "github.com/fwojciec/imagechat"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// StatusLine exports statusLine for testing.
func StatusLine(m Model) string {
	return m.statusLine()
}

// PayloadSize exports payloadSize for testing.
func PayloadSize(uri string) int {
	return payloadSize(uri)
}

// SetCaptionRenderer replaces the markdown renderer of an AssistantBlock.
func SetCaptionRenderer(b *AssistantBlock, fn func(string, int, imagechat.Theme) string) {
	b.render = fn
}
