package model

import (
	"slices"
	"time"
)

// Role identifies who authored a chat message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is a recognized role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatMessage is a single entry in a chat. Messages are immutable once
// appended.
type ChatMessage struct {
	Timestamp time.Time
	ID        string
	Role      Role
	Content   string
}

// Chat is an ordered conversation between the user and the assistant.
// Messages are kept in insertion order and the title never changes after
// creation.
type Chat struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Title     string
	Messages  []ChatMessage
}

// Clone returns a deep copy so callers cannot mutate stored messages.
func (c Chat) Clone() Chat {
	c.Messages = slices.Clone(c.Messages)
	return c
}

// LastMessage returns the most recent message, if any.
func (c Chat) LastMessage() (ChatMessage, bool) {
	if len(c.Messages) == 0 {
		return ChatMessage{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
