package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/loan-advisor/internal/cli"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/spf13/cobra"
)

func replayCmd(opts *rootOptions) *cobra.Command {
	var (
		statement string
		noDelay   bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Ask every question in FILE and print the conversation",
		Long: `Replay asks each non-empty line of FILE in a new chat, waiting for every
answer before sending the next question. Lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings := opts.settings

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			questions, err := cli.ReadQuestions(f)
			_ = f.Close()
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				return common.NewUserError("No questions found in "+args[0], common.ErrEmptyMessage)
			}

			p, err := loadProfile(ctx, settings.ProfilePath, statement, false)
			if err != nil {
				return err
			}

			latency := settings.Latency
			if noDelay {
				latency = 0
			}
			app, err := openChatApp(ctx, settings, latency,
				conversation.WithProfile(func() *model.UserProfile { return p }))
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			replayer := cli.NewReplayer(app.store, app.service, cmd.ErrOrStderr(), quiet)

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx = interrupts.HandleInterrupts(ctx, replayer.Progress)
			defer interrupts.Stop()
			// From here on only the replay's handler reacts to signals.
			opts.releaseSignals()

			chat, runErr := replayer.Run(ctx, questions)
			if chat.ID != "" {
				if err := cli.RenderTranscript(out, chat); err != nil {
					return err
				}
			}
			if runErr != nil && interrupts.WasInterrupted() && errors.Is(runErr, ctx.Err()) {
				return nil
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&statement, "statement", "", "OFX/QFX bank statement to take savings and interest from")
	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "answer immediately instead of after advisor.latency")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")

	return cmd
}
