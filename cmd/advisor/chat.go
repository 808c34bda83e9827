package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/Veraticus/loan-advisor/internal/profile"
	"github.com/Veraticus/loan-advisor/internal/tui"
	"github.com/spf13/cobra"
)

func chatCmd(opts *rootOptions) *cobra.Command {
	var statement string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive advisor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings := opts.settings

			// The alternate screen owns the terminal; logs go to a file or nowhere.
			logOut, closeLog, err := openLogFile(settings.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()
			if err := setupLogging(logOut, settings); err != nil {
				return err
			}

			sess := profile.NewSession()
			bridge := &tui.ReplyBridge{}

			app, err := openChatApp(ctx, settings, settings.Latency,
				conversation.WithProfile(sess.Current),
				conversation.WithOnReply(bridge.Deliver),
			)
			if err != nil {
				return err
			}
			defer app.Close()

			loader := func(ctx context.Context, path string) (*model.UserProfile, error) {
				return loadProfile(ctx, path, statement, true)
			}

			return tui.Run(ctx, bridge,
				tui.WithNavigator(navigation.New(navigation.DefaultView)),
				tui.WithConversation(app.store, app.service),
				tui.WithSession(sess),
				tui.WithProfileSource(settings.ProfilePath, loader),
			)
		},
	}

	cmd.Flags().StringVar(&statement, "statement", "", "OFX/QFX bank statement to take savings and interest from")
	return cmd
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
