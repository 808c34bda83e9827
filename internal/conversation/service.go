// Package conversation sends user questions into a chat and delivers the
// advisor's reply after a simulated thinking delay.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/session"
)

// DefaultLatency is the delay between a question and its answer.
const DefaultLatency = time.Second

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("conversation service closed")

// Reply is a delivered assistant answer.
type Reply struct {
	Message model.ChatMessage
	ChatID  string
	Query   string
	Intent  advisor.Intent
}

// Service appends user messages immediately and schedules the assistant's
// answer. Replies still pending when their chat is deleted are canceled;
// a reply whose chat vanished anyway is dropped rather than appended.
type Service struct {
	ctx       context.Context
	store     *session.Store
	engine    *advisor.Engine
	scheduler Scheduler
	profile   func() *model.UserProfile
	onReply   func(Reply)
	pending   map[string]map[uint64]*PendingReply
	cancel    context.CancelFunc
	latency   time.Duration
	nextID    uint64
	mu        sync.Mutex
	closed    bool
}

// Option configures a Service.
type Option func(*Service)

// WithLatency sets the delay before each reply. Negative values mean no delay.
func WithLatency(d time.Duration) Option {
	return func(s *Service) {
		s.latency = max(d, 0)
	}
}

// WithScheduler overrides how replies are scheduled.
func WithScheduler(sched Scheduler) Option {
	return func(s *Service) {
		s.scheduler = sched
	}
}

// WithProfile sets where the current user profile is read from. It is read
// once per question, when the question is sent. Without it replies use an
// empty profile.
func WithProfile(fn func() *model.UserProfile) Option {
	return func(s *Service) {
		s.profile = fn
	}
}

// WithOnReply registers a callback invoked after each reply is appended.
// It runs on the scheduler's goroutine.
func WithOnReply(fn func(Reply)) Option {
	return func(s *Service) {
		s.onReply = fn
	}
}

// NewService creates a conversation service over store and engine.
func NewService(store *session.Store, engine *advisor.Engine, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("advisor engine is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		ctx:       ctx,
		cancel:    cancel,
		store:     store,
		engine:    engine,
		scheduler: TimerScheduler{},
		profile:   func() *model.UserProfile { return nil },
		onReply:   func(Reply) {},
		latency:   DefaultLatency,
		pending:   make(map[string]map[uint64]*PendingReply),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send appends text as a user message to the chat and schedules the
// answer against the profile as it is now. Blank text is rejected with common.ErrEmptyMessage and nothing is
// appended. An unknown chat fails with common.ErrNotFound.
func (s *Service) Send(ctx context.Context, chatID, text string) (*PendingReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrEmptyMessage
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	userMsg, err := s.store.AppendMessage(ctx, chatID, model.ChatMessage{
		Role:    model.RoleUser,
		Content: text,
	})
	if err != nil {
		return nil, err
	}

	p := &PendingReply{
		ChatID:      chatID,
		Query:       text,
		UserMessage: userMsg,
		profile:     s.profile(),
		done:        make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.nextID++
	p.id = s.nextID
	if s.pending[chatID] == nil {
		s.pending[chatID] = make(map[uint64]*PendingReply)
	}
	s.pending[chatID][p.id] = p

	// Hold p.mu while scheduling so an immediate fire waits for the timer
	// to be recorded.
	p.mu.Lock()
	s.mu.Unlock()
	p.release = func() { s.forget(p) }
	p.timer = s.scheduler.AfterFunc(s.latency, func() { s.deliver(p) })
	p.mu.Unlock()

	slog.Debug("Scheduled reply",
		"chat_id", chatID,
		"latency", s.latency)

	return p, nil
}

// DeleteChat cancels the chat's pending replies and removes it from the
// store. Deleting an unknown chat is a no-op.
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	for _, p := range s.pendingFor(chatID) {
		p.Cancel()
	}
	return s.store.DeleteChat(ctx, chatID)
}

// Pending returns the number of replies still waiting for chatID.
func (s *Service) Pending(chatID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[chatID])
}

// Close cancels every pending reply. Later sends fail with ErrClosed.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	var all []*PendingReply
	for _, byID := range s.pending {
		for _, p := range byID {
			all = append(all, p)
		}
	}
	s.mu.Unlock()

	for _, p := range all {
		p.Cancel()
	}
	s.cancel()
}

func (s *Service) pendingFor(chatID string) []*PendingReply {
	s.mu.Lock()
	defer s.mu.Unlock()

	replies := make([]*PendingReply, 0, len(s.pending[chatID]))
	for _, p := range s.pending[chatID] {
		replies = append(replies, p)
	}
	return replies
}

func (s *Service) forget(p *PendingReply) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.pending[p.ChatID]
	delete(byID, p.id)
	if len(byID) == 0 {
		delete(s.pending, p.ChatID)
	}
}

func (s *Service) deliver(p *PendingReply) {
	if !p.start() {
		return
	}
	defer s.forget(p)

	if _, err := s.store.GetChat(s.ctx, p.ChatID); err != nil {
		s.settleFailure(p, err)
		return
	}

	answer := s.engine.Answer(p.Query, p.profile)

	msg, err := s.store.AppendMessage(s.ctx, p.ChatID, model.ChatMessage{
		Role:    model.RoleAssistant,
		Content: answer.Text,
	})
	if err != nil {
		s.settleFailure(p, err)
		return
	}

	p.finish(OutcomeDelivered, msg, nil)

	slog.Debug("Delivered reply",
		"chat_id", p.ChatID,
		"intent", answer.Intent,
		"message_id", msg.ID)

	s.onReply(Reply{
		ChatID:  p.ChatID,
		Query:   p.Query,
		Intent:  answer.Intent,
		Message: msg,
	})
}

// settleFailure drops replies whose chat disappeared and reports anything
// else as a failure.
func (s *Service) settleFailure(p *PendingReply, err error) {
	if errors.Is(err, common.ErrNotFound) {
		slog.Debug("Dropped reply for deleted chat", "chat_id", p.ChatID)
		p.finish(OutcomeDropped, model.ChatMessage{}, err)
		return
	}

	common.LogError(err, "Failed to deliver reply", common.Fields{"chat_id": p.ChatID})
	p.finish(OutcomeFailed, model.ChatMessage{}, err)
}
