package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/session"
	"github.com/schollz/progressbar/v3"
)

// ReadQuestions returns the non-blank lines of r, trimmed. Lines starting
// with # are comments.
func ReadQuestions(r io.Reader) ([]string, error) {
	var questions []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	return questions, nil
}

// Replayer asks a list of questions in a fresh chat, one at a time,
// waiting for each answer before sending the next.
type Replayer struct {
	store    *session.Store
	service  *conversation.Service
	writer   io.Writer
	answered atomic.Int64
	total    int
	quiet    bool
}

// NewReplayer creates a replayer. Progress is drawn on writer unless quiet.
func NewReplayer(store *session.Store, service *conversation.Service, writer io.Writer, quiet bool) *Replayer {
	return &Replayer{
		store:   store,
		service: service,
		writer:  writer,
		quiet:   quiet,
	}
}

// Progress describes how many questions have been answered so far.
func (r *Replayer) Progress() string {
	return fmt.Sprintf("Answered %d of %d questions", r.answered.Load(), r.total)
}

// Run replays questions and returns the resulting chat. On cancellation
// the pending reply is canceled and the partial chat is returned with the
// context's error.
func (r *Replayer) Run(ctx context.Context, questions []string) (model.Chat, error) {
	r.total = len(questions)
	r.answered.Store(0)

	chat, err := r.store.CreateChat(ctx)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}

	bar := r.newProgressBar(len(questions))

	for _, q := range questions {
		pending, err := r.service.Send(ctx, chat.ID, q)
		if err != nil {
			return r.partial(ctx, chat.ID), fmt.Errorf("failed to send %q: %w", q, err)
		}

		select {
		case <-pending.Done():
		case <-ctx.Done():
			pending.Cancel()
			return r.partial(context.WithoutCancel(ctx), chat.ID), ctx.Err()
		}

		if pending.Outcome() != conversation.OutcomeDelivered {
			slog.Warn("Reply not delivered",
				"query", q,
				"outcome", pending.Outcome().String(),
				"error", pending.Err())
		}

		r.answered.Add(1)
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	return r.store.GetChat(ctx, chat.ID)
}

func (r *Replayer) partial(ctx context.Context, chatID string) model.Chat {
	chat, err := r.store.GetChat(ctx, chatID)
	if err != nil {
		slog.Warn("Failed to load partial chat", "chat_id", chatID, "error", err)
	}
	return chat
}

func (r *Replayer) newProgressBar(total int) *progressbar.ProgressBar {
	if r.quiet || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Asking the advisor...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
