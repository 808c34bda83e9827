package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/config"
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/profile"
	"github.com/Veraticus/loan-advisor/internal/session"
)

// chatApp wires the chat store to the conversation service.
type chatApp struct {
	store   *session.Store
	service *conversation.Service
}

func openChatApp(ctx context.Context, settings config.Settings, latency time.Duration, opts ...conversation.Option) (*chatApp, error) {
	store, err := session.Open(ctx, settings.StorageDriver, settings.StorageName)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat store: %w", err)
	}

	opts = append([]conversation.Option{conversation.WithLatency(latency)}, opts...)
	svc, err := conversation.NewService(store, advisor.NewDefaultEngine(), opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &chatApp{store: store, service: svc}, nil
}

func (a *chatApp) Close() {
	a.service.Close()
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close chat store", "error", err)
	}
}

// loadProfile reads the profile at path and overlays statement when set.
// Unless required, a missing profile yields an empty one so answers fall
// back to their defaults.
func loadProfile(ctx context.Context, path, statement string, required bool) (*model.UserProfile, error) {
	p, err := profile.Load(path)
	if err != nil {
		if required || !errors.Is(err, common.ErrNoProfile) {
			return nil, common.NewUserError("Could not load your profile", err)
		}
		slog.Info("No profile found, using defaults", "path", path)
		p = &model.UserProfile{}
	}

	if statement == "" {
		return p, nil
	}

	p, err = profile.LoadStatement(ctx, p, statement)
	if err != nil {
		return nil, common.NewUserError("Could not read the bank statement", err)
	}
	return p, nil
}
