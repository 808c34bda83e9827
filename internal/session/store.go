package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/google/uuid"
)

// TitleLayout formats chat titles like "Mar 14, 2026, 09:30 AM".
const TitleLayout = "Jan 2, 2006, 03:04 PM"

// Store is the single owner of the chat collection. It tracks which chat
// is current and never hands out references into its storage.
type Store struct {
	repo    Repository
	now     func() time.Time
	newID   func() string
	current string
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides how chat and message IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// NewStore creates a store backed by repo.
func NewStore(repo Repository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrRepoRequired
	}

	s := &Store{
		repo:  repo,
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ListChats returns the chats whose title contains filter, ignoring case,
// in the order they were created. An empty filter matches everything.
func (s *Store) ListChats(ctx context.Context, filter string) ([]model.Chat, error) {
	chats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		return chats, nil
	}

	matched := make([]model.Chat, 0, len(chats))
	for _, chat := range chats {
		if strings.Contains(strings.ToLower(chat.Title), needle) {
			matched = append(matched, chat)
		}
	}
	return matched, nil
}

// CreateChat starts an empty chat titled with the current time and makes
// it the current chat.
func (s *Store) CreateChat(ctx context.Context) (model.Chat, error) {
	now := s.now()
	chat := model.Chat{
		ID:        s.newID(),
		Title:     now.Format(TitleLayout),
		Messages:  []model.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Insert(ctx, chat); err != nil {
		return model.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}
	s.current = chat.ID

	slog.Debug("Created chat", "chat_id", chat.ID, "title", chat.Title)

	return chat, nil
}

// SelectChat makes the chat with id current. When no such chat exists the
// selection is left unchanged and an error wrapping common.ErrNotFound is
// returned.
func (s *Store) SelectChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	s.current = id
	return nil
}

// CurrentChat returns the current chat, or nil when none is selected.
func (s *Store) CurrentChat(ctx context.Context) (*model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return nil, nil
	}

	chat, err := s.repo.Get(ctx, s.current)
	if errors.Is(err, common.ErrNotFound) {
		s.current = ""
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// CurrentID returns the ID of the current chat, or "" when none is selected.
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// GetChat returns the chat with id.
func (s *Store) GetChat(ctx context.Context, id string) (model.Chat, error) {
	return s.repo.Get(ctx, id)
}

// AppendMessage adds msg to the end of the chat. Missing IDs and
// timestamps are filled in. Appending to an unknown chat fails with
// common.ErrNotFound; the message is never dropped silently.
func (s *Store) AppendMessage(ctx context.Context, chatID string, msg model.ChatMessage) (model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("failed to append message: %w", err)
	}

	now := s.now()
	if msg.ID == "" {
		msg.ID = s.newID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	// UpdatedAt never moves backwards, even if the clock does.
	updatedAt := now
	if updatedAt.Before(chat.UpdatedAt) {
		updatedAt = chat.UpdatedAt
	}

	if err := s.repo.Append(ctx, chatID, msg, updatedAt); err != nil {
		return model.ChatMessage{}, fmt.Errorf("failed to append message: %w", err)
	}

	slog.Debug("Appended message",
		"chat_id", chatID,
		"message_id", msg.ID,
		"role", msg.Role)

	return msg, nil
}

// DeleteChat removes the chat with id, clearing the selection if it was
// current. Deleting an unknown chat is a no-op.
func (s *Store) DeleteChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if s.current == id {
		s.current = ""
	}

	if removed {
		slog.Debug("Deleted chat", "chat_id", id)
	}
	return nil
}

// ClearSelection leaves no chat selected.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// Close closes the underlying repository.
func (s *Store) Close() error {
	return s.repo.Close()
}
