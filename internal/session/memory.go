package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps chats in process memory.
type MemoryRepository struct {
	index map[string]int
	chats []model.Chat
	mu    sync.RWMutex
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		index: make(map[string]int),
	}
}

// Insert adds a chat at the end of the collection.
func (r *MemoryRepository) Insert(ctx context.Context, chat model.Chat) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(chat.ID, "chat ID"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[chat.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, chat.ID)
	}

	r.index[chat.ID] = len(r.chats)
	r.chats = append(r.chats, chat.Clone())

	return nil
}

// List returns copies of every chat in insertion order.
func (r *MemoryRepository) List(ctx context.Context) ([]model.Chat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	chats := make([]model.Chat, 0, len(r.chats))
	for _, chat := range r.chats {
		chats = append(chats, chat.Clone())
	}
	return chats, nil
}

// Get returns a copy of the chat with the given ID.
func (r *MemoryRepository) Get(ctx context.Context, id string) (model.Chat, error) {
	if err := validateContext(ctx); err != nil {
		return model.Chat{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.Chat{}, fmt.Errorf("chat %s: %w", id, common.ErrNotFound)
	}
	return r.chats[i].Clone(), nil
}

// Append adds msg to the end of the chat and stamps updatedAt.
func (r *MemoryRepository) Append(ctx context.Context, chatID string, msg model.ChatMessage, updatedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[chatID]
	if !ok {
		return fmt.Errorf("chat %s: %w", chatID, common.ErrNotFound)
	}

	r.chats[i].Messages = append(r.chats[i].Messages, msg)
	r.chats[i].UpdatedAt = updatedAt

	return nil
}

// Delete removes the chat with the given ID.
func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false, nil
	}

	r.chats = append(r.chats[:i], r.chats[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.chats); j++ {
		r.index[r.chats[j].ID] = j
	}

	return true, nil
}

// Close releases nothing; it exists to satisfy Repository.
func (r *MemoryRepository) Close() error {
	return nil
}
