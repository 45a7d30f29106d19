package imagechat

import (
	"fmt"
	"sync"
)

// Conversation is the append-only message log. Insertion order is display
// order. It is safe for concurrent use.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation creates a Conversation holding the seed messages.
func NewConversation(seed ...Message) *Conversation {
	c := &Conversation{}
	for _, m := range seed {
		c.messages = append(c.messages, m.clone())
	}
	return c
}

// Append adds msg to the end of the log.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg.clone())
}

// Messages returns a copy of the full log in order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.clone()
	}
	return out
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Get returns the message with the given ID.
func (c *Conversation) Get(id string) (Message, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if m.ID == id {
			return m.clone(), nil
		}
	}
	return Message{}, fmt.Errorf("message %q: %w", id, ErrNotFound)
}

// LastFrom returns the most recent message from sender, if any.
func (c *Conversation) LastFrom(sender Sender) (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == sender {
			return c.messages[i].clone(), true
		}
	}
	return Message{}, false
}
