package profile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/ofx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "applicant.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "priya", p.Username)
	assert.Equal(t, "priya@example.com", p.Email)
	assert.Equal(t, model.EmploymentPrivate, p.EmploymentType)
	assert.Equal(t, model.CreditHistoryExcellent, p.CreditHistory)
	assert.InDelta(t, 60000, p.AnnualSalary, 0)
	assert.InDelta(t, 250000, p.LoanAmount, 0)
	assert.InDelta(t, 22.5, p.AverageCreditUtilization, 0)
	assert.Equal(t, 120, p.RepaymentTermMonths)
	assert.Equal(t, 5, p.YearsOfEmployment)
	assert.True(t, p.PreviousLoans)
	assert.False(t, p.LatePaymentHistory)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"username": "sam",
		"annual_salary": 45000,
		"employment_type": "contract_based",
		"loan_amount": 20000
	}`), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sam", p.Username)
	assert.Equal(t, model.EmploymentContractBased, p.EmploymentType)
	assert.InDelta(t, 45000, p.AnnualSalary, 0)
	assert.Empty(t, p.CreditHistory)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, common.ErrNoProfile)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("  ")
		assert.ErrorIs(t, err, common.ErrNoProfile)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("annual_salary: -5\n"), 0o600))
		_, err := Load(path)
		assert.ErrorIs(t, err, common.ErrInvalidProfile)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("annual_salary: [\n"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *model.UserProfile)
		wantErr bool
	}{
		{"zero profile", func(*model.UserProfile) {}, false},
		{"negative salary", func(p *model.UserProfile) { p.AnnualSalary = -1 }, true},
		{"nan loan", func(p *model.UserProfile) { p.LoanAmount = math.NaN() }, true},
		{"infinite collateral", func(p *model.UserProfile) { p.CollateralValue = math.Inf(1) }, true},
		{"negative term", func(p *model.UserProfile) { p.RepaymentTermMonths = -12 }, true},
		{"term above 100 years", func(p *model.UserProfile) { p.RepaymentTermMonths = 200000 }, true},
		{"term at 100 years", func(p *model.UserProfile) { p.RepaymentTermMonths = 1200 }, false},
		{"loan above a trillion", func(p *model.UserProfile) { p.LoanAmount = 1e308 }, true},
		{"negative age", func(p *model.UserProfile) { p.Age = -1 }, true},
		{"utilization above 100", func(p *model.UserProfile) { p.AverageCreditUtilization = 100.5 }, true},
		{"utilization at 100", func(p *model.UserProfile) { p.AverageCreditUtilization = 100 }, false},
		{"unknown employment", func(p *model.UserProfile) { p.EmploymentType = "pirate" }, true},
		{"known employment", func(p *model.UserProfile) { p.EmploymentType = model.EmploymentGovernment }, false},
		{"free-form credit history", func(p *model.UserProfile) { p.CreditHistory = "Excellent!" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.UserProfile{}
			tt.mutate(p)
			err := Validate(p)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidProfile)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, Validate(nil), common.ErrInvalidProfile)
}

func TestApplyStatement(t *testing.T) {
	base := &model.UserProfile{Username: "priya", SavingBankBalance: 100, InterestIncome: 5}

	t.Run("bank statement overlays balance and interest", func(t *testing.T) {
		summary := ofx.Summary{
			Statements:    []ofx.Statement{{Kind: ofx.AccountBank, AccountID: "1"}},
			LedgerBalance: 9000,
			Interest:      30,
		}
		got := ApplyStatement(base, summary)

		assert.InDelta(t, 9000, got.SavingBankBalance, 0)
		assert.InDelta(t, 30, got.InterestIncome, 0)
		assert.Equal(t, "priya", got.Username)
		// Input is untouched.
		assert.InDelta(t, 100, base.SavingBankBalance, 0)
	})

	t.Run("no interest keeps the profile value", func(t *testing.T) {
		summary := ofx.Summary{
			Statements:    []ofx.Statement{{Kind: ofx.AccountBank}},
			LedgerBalance: 50,
		}
		got := ApplyStatement(base, summary)
		assert.InDelta(t, 50, got.SavingBankBalance, 0)
		assert.InDelta(t, 5, got.InterestIncome, 0)
	})

	t.Run("overdrawn balance floors at zero", func(t *testing.T) {
		summary := ofx.Summary{
			Statements:    []ofx.Statement{{Kind: ofx.AccountBank}},
			LedgerBalance: -20,
		}
		assert.Zero(t, ApplyStatement(base, summary).SavingBankBalance)
	})

	t.Run("credit cards only", func(t *testing.T) {
		summary := ofx.Summary{
			Statements: []ofx.Statement{{Kind: ofx.AccountCreditCard, LedgerBalance: -300}},
		}
		assert.Equal(t, base, ApplyStatement(base, summary))
	})

	t.Run("nil profile", func(t *testing.T) {
		got := ApplyStatement(nil, ofx.Summary{})
		require.NotNil(t, got)
		assert.Equal(t, model.UserProfile{}, *got)
	})
}

func TestLoadStatement(t *testing.T) {
	base := &model.UserProfile{Username: "priya"}

	got, err := LoadStatement(context.Background(), base, filepath.Join("testdata", "savings.ofx"))
	require.NoError(t, err)
	assert.InDelta(t, 32000, got.SavingBankBalance, 1e-9)
	assert.InDelta(t, 40, got.InterestIncome, 1e-9)

	_, err = LoadStatement(context.Background(), base, filepath.Join("testdata", "missing.ofx"))
	assert.Error(t, err)
}
