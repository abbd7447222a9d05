package core

import "sync"

// Conversation is the append-only message log shared by all participants
// of one orchestration run. It is safe for concurrent access.
//
// Contract:
//   - Ordinals are dense and strictly increasing (assigned on Append)
//   - Messages are never edited or removed
//   - Messages returns a defensive copy to avoid external mutation
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation creates an empty conversation log.
func NewConversation() *Conversation { return &Conversation{} }

// Append assigns the next ordinal to the message, stores it and returns
// the stored value. A missing ID is filled in.
func (c *Conversation) Append(m Message) Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m.ID == "" {
		m.ID = NewID()
	}
	m.Ordinal = len(c.messages)
	c.messages = append(c.messages, m)
	return m
}

// Messages returns a copy of the full log.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
