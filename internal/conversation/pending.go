package conversation

import (
	"sync"

	"github.com/Veraticus/loan-advisor/internal/model"
)

// Outcome is how a pending reply ended.
type Outcome int

// Reply outcomes.
const (
	OutcomePending Outcome = iota
	OutcomeDelivered
	OutcomeCanceled
	OutcomeDropped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeDropped:
		return "dropped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PendingReply tracks one scheduled answer.
type PendingReply struct {
	timer       Timer
	release     func()
	err         error
	profile     *model.UserProfile
	done        chan struct{}
	UserMessage model.ChatMessage
	reply       model.ChatMessage
	ChatID      string
	Query       string
	id          uint64
	outcome     Outcome
	running     bool
	mu          sync.Mutex
}

// Cancel stops the reply if it has not started. It reports whether the
// reply was canceled by this call.
func (p *PendingReply) Cancel() bool {
	p.mu.Lock()
	if p.running || p.outcome != OutcomePending {
		p.mu.Unlock()
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.outcome = OutcomeCanceled
	close(p.done)
	release := p.release
	p.mu.Unlock()

	if release != nil {
		release()
	}
	return true
}

// Done is closed once the reply is delivered, canceled, dropped or failed.
func (p *PendingReply) Done() <-chan struct{} {
	return p.done
}

// Outcome returns how the reply ended, or OutcomePending.
func (p *PendingReply) Outcome() Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Message returns the appended assistant message once delivered.
func (p *PendingReply) Message() (model.ChatMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reply, p.outcome == OutcomeDelivered
}

// Err returns the error that ended the reply, if any.
func (p *PendingReply) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// start claims the reply for delivery. It fails if the reply was canceled.
func (p *PendingReply) start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.outcome != OutcomePending {
		return false
	}
	p.running = true
	return true
}

func (p *PendingReply) finish(outcome Outcome, msg model.ChatMessage, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outcome != OutcomePending {
		return
	}
	p.outcome = outcome
	p.reply = msg
	p.err = err
	p.running = false
	close(p.done)
}
