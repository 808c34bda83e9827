package main

import (
	"fmt"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/cli"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/spf13/cobra"
)

func emiCmd(_ *rootOptions) *cobra.Command {
	var (
		amount   float64
		months   int
		rate     float64
		schedule bool
	)

	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Calculate a monthly installment",
		Example: `  advisor emi --amount 250000 --months 120
  advisor emi --amount 5000 --months 12 --rate 12 --schedule`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := advisor.CalculateEMI(amount, months, rate/100)
			if err != nil {
				return common.NewUserError(fmt.Sprintf(
					"Amount must be between 0 and %s, months between 1 and %d, and the rate not negative",
					advisor.FormatAmount(advisor.MaxPrincipal), advisor.MaxTermMonths), err)
			}
			return cli.RenderEMI(cmd.OutOrStdout(), res, schedule)
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", advisor.DefaultPrincipal, "loan amount")
	cmd.Flags().IntVar(&months, "months", advisor.DefaultTermMonths, "repayment term in months")
	cmd.Flags().Float64Var(&rate, "rate", advisor.AnnualInterestRate*100, "annual interest rate in percent")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "print the amortization schedule")

	return cmd
}
