package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var _ Repository = (*SQLiteRepository)(nil)

const timeLayout = time.RFC3339Nano

// SQLiteRepository stores chats in a private in-memory SQLite database.
// Nothing is written to disk and the data disappears with the process.
type SQLiteRepository struct {
	db   *sql.DB
	name string
}

// NewSQLiteRepository opens an in-memory database called name and applies
// the schema. An empty name gets a random one so repositories never share
// state by accident.
func NewSQLiteRepository(ctx context.Context, name string) (*SQLiteRepository, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		name = "chats-" + uuid.NewString()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The in-memory database lives as long as one connection stays open.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db, name: name}
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database, discarding its contents.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Insert adds a chat at the end of the collection.
func (r *SQLiteRepository) Insert(ctx context.Context, chat model.Chat) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(chat.ID, "chat ID"); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM chats WHERE id = ?`, chat.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check chat: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, chat.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chats (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		chat.ID,
		chat.Title,
		chat.CreatedAt.Format(timeLayout),
		chat.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}

	for _, msg := range chat.Messages {
		if err := insertMessage(ctx, tx, chat.ID, msg); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns every chat in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]model.Chat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM chats ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chats []model.Chat
	for rows.Next() {
		chat, scanErr := scanChat(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}

	for i := range chats {
		msgs, msgErr := r.messages(ctx, chats[i].ID)
		if msgErr != nil {
			return nil, msgErr
		}
		chats[i].Messages = msgs
	}

	return chats, nil
}

// Get returns the chat with the given ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (model.Chat, error) {
	if err := validateContext(ctx); err != nil {
		return model.Chat{}, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM chats WHERE id = ?`, id)
	chat, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Chat{}, fmt.Errorf("chat %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return model.Chat{}, err
	}

	chat.Messages, err = r.messages(ctx, id)
	if err != nil {
		return model.Chat{}, err
	}
	return chat, nil
}

// Append adds msg to the end of the chat and stamps updatedAt.
func (r *SQLiteRepository) Append(ctx context.Context, chatID string, msg model.ChatMessage, updatedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE chats SET updated_at = ? WHERE id = ?`,
		updatedAt.Format(timeLayout), chatID)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("chat %s: %w", chatID, common.ErrNotFound)
	}

	if err := insertMessage(ctx, tx, chatID, msg); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the chat and its messages.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete messages: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *SQLiteRepository) messages(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY seq`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []model.ChatMessage
	for rows.Next() {
		var (
			msg       model.ChatMessage
			role      string
			createdAt string
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = model.Role(role)
		msg.Timestamp, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message timestamp: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return msgs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (model.Chat, error) {
	var (
		chat                 model.Chat
		createdAt, updatedAt string
	)
	if err := row.Scan(&chat.ID, &chat.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Chat{}, err
		}
		return model.Chat{}, fmt.Errorf("failed to scan chat: %w", err)
	}

	var err error
	chat.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	chat.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return chat, nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, chatID string, msg model.ChatMessage) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, chatID, string(msg.Role), msg.Content, msg.Timestamp.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}
