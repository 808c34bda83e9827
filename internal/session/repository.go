// Package session owns the chat collection and the current-chat selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/loan-advisor/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidRole  = errors.New("invalid message role")
	ErrDuplicateID  = errors.New("duplicate chat id")
	ErrRepoRequired = errors.New("repository is required")
)

// Repository stores chats in insertion order. Implementations return
// copies and report missing chats with common.ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, chat model.Chat) error
	List(ctx context.Context) ([]model.Chat, error)
	Get(ctx context.Context, id string) (model.Chat, error)
	Append(ctx context.Context, chatID string, msg model.ChatMessage, updatedAt time.Time) error
	// Delete reports whether a chat was removed.
	Delete(ctx context.Context, id string) (bool, error)
	Close() error
}

// validateContext ensures the context is valid.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateMessage(msg model.ChatMessage) error {
	if err := validateString(msg.ID, "message ID"); err != nil {
		return err
	}
	if !msg.Role.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
	}
	return nil
}
