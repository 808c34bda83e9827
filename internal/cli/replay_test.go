package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReplayFixture(t *testing.T, latency time.Duration) (*session.Store, *conversation.Service) {
	t.Helper()
	store, err := session.NewStore(session.NewMemoryRepository())
	require.NoError(t, err)

	svc, err := conversation.NewService(store, advisor.NewDefaultEngine(), conversation.WithLatency(latency))
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return store, svc
}

func TestReadQuestions(t *testing.T) {
	input := "am I eligible for a loan?\n\n  # a comment\n  credit score  \n\nemi\n"

	got, err := ReadQuestions(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"am I eligible for a loan?", "credit score", "emi"}, got)

	got, err = ReadQuestions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplayer_Run(t *testing.T) {
	store, svc := newReplayFixture(t, 0)
	var progress bytes.Buffer
	r := NewReplayer(store, svc, &progress, false)

	chat, err := r.Run(context.Background(), []string{"credit score", "documents", "hello"})
	require.NoError(t, err)

	require.Len(t, chat.Messages, 6)
	for i, msg := range chat.Messages {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, msg.Role)
		} else {
			assert.Equal(t, model.RoleAssistant, msg.Role)
		}
	}
	assert.Contains(t, chat.Messages[1].Content, "credit score")
	assert.Contains(t, chat.Messages[3].Content, "Required documents")
	assert.Equal(t, "Answered 3 of 3 questions", r.Progress())
	assert.NotEmpty(t, progress.String())
}

func TestReplayer_RunCanceled(t *testing.T) {
	store, svc := newReplayFixture(t, time.Hour)
	r := NewReplayer(store, svc, &bytes.Buffer{}, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	chat, err := r.Run(ctx, []string{"emi", "credit score"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Len(t, chat.Messages, 1)
	assert.Equal(t, "emi", chat.Messages[0].Content)
	assert.Equal(t, "Answered 0 of 2 questions", r.Progress())
	assert.Zero(t, svc.Pending(chat.ID))
}

func TestReplayer_RunEmpty(t *testing.T) {
	store, svc := newReplayFixture(t, 0)
	r := NewReplayer(store, svc, &bytes.Buffer{}, false)

	chat, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)
	assert.NotEmpty(t, chat.ID)
}
