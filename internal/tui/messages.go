package tui

import (
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/navigation"
)

// navigatedMsg reports a view change published on the broadcaster.
type navigatedMsg struct {
	view navigation.View
}

// replyMsg carries an answer delivered by the conversation service.
type replyMsg struct {
	reply conversation.Reply
}

// errorMsg surfaces a failure in the status line.
type errorMsg struct {
	err error
}
