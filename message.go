package imagechat

import (
	"slices"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "User"
	SenderAI   Sender = "AI"
)

// Image is an image attached to a message. URL is a data URI for generated
// images and a file URL for local previews.
type Image struct {
	URL      string
	MimeType string
}

// Message is one entry in the conversation log. Messages are immutable once
// appended to a Conversation.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	Images    []Image
	Timestamp time.Time
	IsError   bool
}

// clone returns a copy of m that shares no image storage with m.
func (m Message) clone() Message {
	m.Images = slices.Clone(m.Images)
	return m
}

// Greeting returns the assistant message shown at the start of a session.
func Greeting(now time.Time) Message {
	return Message{
		ID:     "init",
		Sender: SenderAI,
		Text: "Olá! Sou sua IA de imagens.\n\n" +
			"Você pode:\n" +
			"1. Descrever uma imagem para eu criar.\n" +
			"2. Enviar uma imagem e me dizer como alterá-la.\n\n" +
			"Selecione a proporção desejada e vamos começar!",
		Timestamp: now,
	}
}
