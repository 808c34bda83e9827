// Package profile loads, validates and holds the signed-in user's profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/config"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/ofx"
	"github.com/spf13/viper"
)

// Load reads a profile from a YAML, JSON or TOML file. The format follows
// the file extension. A missing file wraps common.ErrNoProfile.
func Load(path string) (*model.UserProfile, error) {
	path = config.ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return nil, fmt.Errorf("profile path is empty: %w", common.ErrNoProfile)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile %s: %w", path, common.ErrNoProfile)
		}
		return nil, fmt.Errorf("failed to stat profile: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p model.UserProfile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	slog.Debug("Loaded profile", "path", path, "username", p.Username)
	return &p, nil
}

// Validate rejects values the advisor cannot reason about. It wraps
// common.ErrInvalidProfile and names the first offending field.
func Validate(p *model.UserProfile) error {
	if p == nil {
		return fmt.Errorf("profile is nil: %w", common.ErrInvalidProfile)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"annual_salary", p.AnnualSalary},
		{"collateral_value", p.CollateralValue},
		{"previous_loan_amount", p.PreviousLoanAmount},
		{"total_emi_amount", p.TotalEMIAmount},
		{"saving_bank_balance", p.SavingBankBalance},
		{"loan_amount", p.LoanAmount},
		{"rent_income", p.RentIncome},
		{"interest_income", p.InterestIncome},
	}
	for _, a := range amounts {
		if a.value < 0 || math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return fmt.Errorf("%s must be a non-negative number: %w", a.name, common.ErrInvalidProfile)
		}
	}

	counts := []struct {
		name  string
		value int
	}{
		{"age", p.Age},
		{"dependents", p.Dependents},
		{"years_of_employment", p.YearsOfEmployment},
		{"repayment_term_months", p.RepaymentTermMonths},
		{"number_of_credit_cards", p.NumberOfCreditCards},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must not be negative: %w", c.name, common.ErrInvalidProfile)
		}
	}

	if p.LoanAmount > advisor.MaxPrincipal {
		return fmt.Errorf("loan_amount must not exceed %v: %w", advisor.MaxPrincipal, common.ErrInvalidProfile)
	}
	if p.RepaymentTermMonths > advisor.MaxTermMonths {
		return fmt.Errorf("repayment_term_months must not exceed %d: %w", advisor.MaxTermMonths, common.ErrInvalidProfile)
	}

	if u := p.AverageCreditUtilization; u < 0 || u > 100 || math.IsNaN(u) {
		return fmt.Errorf("average_credit_utilization must be between 0 and 100: %w", common.ErrInvalidProfile)
	}

	if !p.EmploymentType.IsValid() {
		return fmt.Errorf("unknown employment_type %q: %w", p.EmploymentType, common.ErrInvalidProfile)
	}

	return nil
}

// ApplyStatement returns a copy of p with the savings balance and interest
// income taken from the bank statements in summary. Credit card statements
// are ignored, and interest is only overlaid when the statement shows some.
func ApplyStatement(p *model.UserProfile, summary ofx.Summary) *model.UserProfile {
	out := p.Clone()
	if out == nil {
		out = &model.UserProfile{}
	}
	if !summary.HasBank() {
		return out
	}

	out.SavingBankBalance = max(summary.LedgerBalance, 0)
	if summary.Interest > 0 {
		out.InterestIncome = summary.Interest
	}
	return out
}

// LoadStatement reads an OFX/QFX file and overlays it on p.
func LoadStatement(ctx context.Context, p *model.UserProfile, path string) (*model.UserProfile, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close statement", "path", path, "error", cerr)
		}
	}()

	summary, err := ofx.NewParser().Summarize(ctx, f)
	if err != nil {
		return nil, err
	}
	if !summary.HasBank() {
		slog.Warn("Statement has no bank accounts; profile unchanged", "path", path)
	}
	return ApplyStatement(p, summary), nil
}
