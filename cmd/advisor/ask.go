package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/cli"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/spf13/cobra"
)

func askCmd(opts *rootOptions) *cobra.Command {
	var statement string

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Answer a single question",
		Example: `  advisor ask am I eligible for a loan
  advisor ask "what documents do I need?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return common.NewUserError("Please ask a question", common.ErrEmptyMessage)
			}

			p, err := loadProfile(cmd.Context(), opts.settings.ProfilePath, statement, false)
			if err != nil {
				return err
			}

			answer := advisor.NewDefaultEngine().Answer(question, p)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.AdvisorIcon+" Advisor", answer.Text))
			return err
		},
	}

	cmd.Flags().StringVar(&statement, "statement", "", "OFX/QFX bank statement to take savings and interest from")
	return cmd
}
