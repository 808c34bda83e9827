package tui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Veraticus/loan-advisor/internal/conversation"
	tea "github.com/charmbracelet/bubbletea"
)

// ReplyBridge forwards answers from the conversation service into a running
// program. Pass Deliver to conversation.WithOnReply before the program
// exists; replies that arrive while no program runs are dropped.
type ReplyBridge struct {
	program atomic.Pointer[tea.Program]
}

// Deliver sends r to the attached program, if any.
func (b *ReplyBridge) Deliver(r conversation.Reply) {
	if p := b.program.Load(); p != nil {
		p.Send(replyMsg{reply: r})
	}
}

// Run starts the TUI and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, bridge *ReplyBridge, opts ...Option) error {
	m, err := New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if bridge != nil {
		bridge.program.Store(p)
		defer bridge.program.Store(nil)
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
