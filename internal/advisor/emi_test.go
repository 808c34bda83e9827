package advisor

import (
	"math"
	"testing"

	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEMI_ReferenceLoan(t *testing.T) {
	res, err := CalculateEMI(100000, 60, 0.08)
	require.NoError(t, err)

	assert.InDelta(t, 2027.64, RoundCents(res.Installment), 1e-9)
	assert.InDelta(t, 121658.37, RoundCents(res.TotalPayment), 1e-9)
	assert.InDelta(t, 21658.37, RoundCents(res.TotalInterest), 1e-9)

	// The rounded installment times the term lands on the same figures
	// to within a few cents.
	assert.InDelta(t, 121658.40, res.TotalPayment, 0.05)
	assert.InDelta(t, 21658.40, res.TotalInterest, 0.05)

	assert.InDelta(t, 0.08/12, res.MonthlyRate, 1e-15)
	assert.Equal(t, 60, res.Months)
}

func TestCalculateEMI_MatchesFormula(t *testing.T) {
	tests := []struct {
		principal float64
		months    int
		rate      float64
	}{
		{250000, 120, 0.08},
		{5000, 12, 0.12},
		{1, 1, 0.08},
		{750000, 360, 0.065},
	}

	for _, tt := range tests {
		res, err := CalculateEMI(tt.principal, tt.months, tt.rate)
		require.NoError(t, err)

		r := tt.rate / 12
		growth := math.Pow(1+r, float64(tt.months))
		want := tt.principal * r * growth / (growth - 1)

		assert.InDelta(t, want, res.Installment, 1e-9)
		assert.InDelta(t, want*float64(tt.months), res.TotalPayment, 1e-6)
		assert.InDelta(t, res.TotalPayment-tt.principal, res.TotalInterest, 1e-6)
	}
}

func TestCalculateEMI_ZeroRate(t *testing.T) {
	res, err := CalculateEMI(12000, 12, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1000, res.Installment, 1e-9)
	assert.InDelta(t, 0, res.TotalInterest, 1e-9)
}

func TestCalculateEMI_InvalidTerms(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		months    int
		rate      float64
	}{
		{"zero principal", 0, 12, 0.08},
		{"negative principal", -1, 12, 0.08},
		{"nan principal", math.NaN(), 12, 0.08},
		{"zero months", 1000, 0, 0.08},
		{"negative rate", 1000, 12, -0.01},
		{"term above maximum", 1000, MaxTermMonths + 1, 0.08},
		{"huge term", 1000, 200000, 0.08},
		{"principal above maximum", MaxPrincipal * 2, 12, 0.08},
		{"infinite principal", math.Inf(1), 12, 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEMI(tt.principal, tt.months, tt.rate)
			assert.ErrorIs(t, err, ErrInvalidLoanTerms)
		})
	}
}

func TestCalculateEMI_Extremes(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		months    int
	}{
		{"longest term", 100000, MaxTermMonths},
		{"largest principal", MaxPrincipal, MaxTermMonths},
		{"one month", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateEMI(tt.principal, tt.months, AnnualInterestRate)
			require.NoError(t, err)
			for _, v := range []float64{res.Installment, res.TotalPayment, res.TotalInterest} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "got %v", v)
			}
			assert.GreaterOrEqual(t, res.TotalPayment, tt.principal)
		})
	}
}

func TestAmortizationSchedule(t *testing.T) {
	res, err := CalculateEMI(100000, 60, 0.08)
	require.NoError(t, err)

	schedule := AmortizationSchedule(res)
	require.Len(t, schedule, 60)

	var paid, interest, principal float64
	for i, row := range schedule {
		assert.Equal(t, i+1, row.Month)
		paid += row.Payment
		interest += row.Interest
		principal += row.Principal
	}

	assert.InDelta(t, res.TotalPayment, paid, 0.01)
	assert.InDelta(t, res.TotalInterest, interest, 0.01)
	assert.InDelta(t, res.Principal, principal, 1e-6)
	assert.Zero(t, schedule[len(schedule)-1].Balance)

	// First month interest is the full balance at the monthly rate.
	assert.InDelta(t, 666.67, RoundCents(schedule[0].Interest), 1e-9)
	// Interest falls as the balance is paid down.
	assert.Greater(t, schedule[0].Interest, schedule[59].Interest)
}

func TestAmortizationSchedule_Empty(t *testing.T) {
	assert.Nil(t, AmortizationSchedule(EMIResult{}))
}

func TestEngine_EMIAnswer(t *testing.T) {
	engine := NewDefaultEngine()

	t.Run("defaults when the profile has no loan", func(t *testing.T) {
		for _, profile := range []*model.UserProfile{nil, {}} {
			got := engine.Respond("what is my EMI?", profile)
			assert.Contains(t, got, "For a loan of $100,000 at 8% annual interest for 60 months:")
			assert.Contains(t, got, "• Monthly EMI: $2027.64")
			assert.Contains(t, got, "• Total Payment: $121658.37")
			assert.Contains(t, got, "• Total Interest: $21658.37")
			assert.Contains(t, got, "This EMI should not exceed 40-50% of your monthly income")
		}
	})

	t.Run("uses the requested loan", func(t *testing.T) {
		got := engine.Respond("emi please", &model.UserProfile{LoanAmount: 250000, RepaymentTermMonths: 120})
		assert.Contains(t, got, "For a loan of $250,000 at 8% annual interest for 120 months:")
		assert.Contains(t, got, "• Monthly EMI: $3033.19")
		assert.Contains(t, got, "• Total Payment: $363982.78")
		assert.Contains(t, got, "• Total Interest: $113982.78")
	})

	t.Run("out of range terms fall back to defaults", func(t *testing.T) {
		profiles := []*model.UserProfile{
			{RepaymentTermMonths: 200000},
			{LoanAmount: 1e308},
			{LoanAmount: 1e308, RepaymentTermMonths: MaxTermMonths},
		}
		for _, profile := range profiles {
			got := engine.Respond("what is my emi", profile)
			assert.Contains(t, got, "For a loan of $100,000 at 8% annual interest for 60 months:")
			assert.Contains(t, got, "• Monthly EMI: $2027.64")
			assert.NotContains(t, got, "NaN")
			assert.NotContains(t, got, "Inf")
		}
	})

	t.Run("malformed terms fall back to defaults", func(t *testing.T) {
		got := engine.Respond("emi", &model.UserProfile{LoanAmount: math.NaN(), RepaymentTermMonths: -12})
		assert.Contains(t, got, "For a loan of $100,000 at 8% annual interest for 60 months:")
	})
}

func TestLoanTerms(t *testing.T) {
	p, n := LoanTerms(&model.UserProfile{LoanAmount: 5000})
	assert.InDelta(t, 5000, p, 0)
	assert.Equal(t, DefaultTermMonths, n)

	p, n = LoanTerms(&model.UserProfile{RepaymentTermMonths: 24})
	assert.InDelta(t, DefaultPrincipal, p, 0)
	assert.Equal(t, 24, n)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{60000, "60,000"},
		{1234567, "1,234,567"},
		{1234.5, "1,234.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestRoundCents(t *testing.T) {
	assert.InDelta(t, 2027.64, RoundCents(2027.639428841385), 1e-9)
	assert.InDelta(t, 0.13, RoundCents(0.125), 1e-9)
	assert.InDelta(t, -0.13, RoundCents(-0.125), 1e-9)
}
