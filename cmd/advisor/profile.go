package main

import (
	"github.com/Veraticus/loan-advisor/internal/cli"
	"github.com/spf13/cobra"
)

func profileCmd(opts *rootOptions) *cobra.Command {
	var statement string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and credit assessment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile(cmd.Context(), opts.settings.ProfilePath, statement, true)
			if err != nil {
				return err
			}
			return cli.RenderProfile(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&statement, "statement", "", "OFX/QFX bank statement to take savings and interest from")
	return cmd
}
