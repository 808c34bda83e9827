package advisor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/loan-advisor/internal/model"
)

// Loan terms used when the profile does not say.
const (
	DefaultPrincipal  = 100000.0
	DefaultTermMonths = 60
	// AnnualInterestRate is the nominal yearly rate quoted in EMI answers.
	AnnualInterestRate = 0.08
	// MaxTermMonths and MaxPrincipal bound the loans CalculateEMI accepts.
	MaxTermMonths = 1200
	MaxPrincipal  = 1e12
)

// ErrInvalidLoanTerms is returned for a principal or term that is not
// positive or exceeds its maximum, a negative rate, or a result that does
// not fit a float64.
var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// EMIResult describes an amortized loan. Amounts are unrounded; use
// RoundCents for display.
type EMIResult struct {
	Principal     float64
	AnnualRate    float64
	MonthlyRate   float64
	Installment   float64
	TotalPayment  float64
	TotalInterest float64
	Months        int
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64
	Month     int
}

// CalculateEMI computes the equated monthly installment
//
//	EMI = P·R·(1+R)^N / ((1+R)^N − 1) = P·R / (1 − (1+R)^−N)
//
// with R the monthly rate. A zero rate spreads the principal evenly.
func CalculateEMI(principal float64, months int, annualRate float64) (EMIResult, error) {
	if principal <= 0 || principal > MaxPrincipal || math.IsNaN(principal) {
		return EMIResult{}, fmt.Errorf("%w: principal %v", ErrInvalidLoanTerms, principal)
	}
	if months <= 0 || months > MaxTermMonths {
		return EMIResult{}, fmt.Errorf("%w: term %d months", ErrInvalidLoanTerms, months)
	}
	if annualRate < 0 || math.IsNaN(annualRate) || math.IsInf(annualRate, 0) {
		return EMIResult{}, fmt.Errorf("%w: rate %v", ErrInvalidLoanTerms, annualRate)
	}

	r := annualRate / 12
	n := float64(months)

	var emi float64
	if r == 0 {
		emi = principal / n
	} else {
		emi = principal * r / (1 - math.Pow(1+r, -n))
	}

	total := emi * n
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return EMIResult{}, fmt.Errorf("%w: principal %v over %d months overflows", ErrInvalidLoanTerms, principal, months)
	}
	return EMIResult{
		Principal:     principal,
		Months:        months,
		AnnualRate:    annualRate,
		MonthlyRate:   r,
		Installment:   emi,
		TotalPayment:  total,
		TotalInterest: total - principal,
	}, nil
}

// AmortizationSchedule splits every installment of res into interest and
// principal. The last row absorbs floating point drift so the balance ends
// at exactly zero.
func AmortizationSchedule(res EMIResult) []Installment {
	if res.Months <= 0 {
		return nil
	}

	schedule := make([]Installment, 0, res.Months)
	balance := res.Principal
	for month := 1; month <= res.Months; month++ {
		interest := balance * res.MonthlyRate
		principal := res.Installment - interest
		payment := res.Installment
		if month == res.Months {
			principal = balance
			payment = principal + interest
		}
		balance -= principal
		if month == res.Months || math.Abs(balance) < 1e-9 {
			balance = 0
		}

		schedule = append(schedule, Installment{
			Month:     month,
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}
	return schedule
}

// LoanTerms returns the principal and term the EMI answer uses for
// profile, substituting the defaults for missing or non-positive values.
// The terms are not range checked; see CalculateEMI.
func LoanTerms(profile *model.UserProfile) (float64, int) {
	principal, months := DefaultPrincipal, DefaultTermMonths
	if profile == nil {
		return principal, months
	}
	if p := nonNegative(profile.LoanAmount); p > 0 {
		principal = p
	}
	if profile.RepaymentTermMonths > 0 {
		months = profile.RepaymentTermMonths
	}
	return principal, months
}

func emiResponse(profile *model.UserProfile) string {
	principal, months := LoanTerms(profile)

	res, err := CalculateEMI(principal, months, AnnualInterestRate)
	if err != nil {
		slog.Debug("Loan terms out of range, quoting defaults",
			"principal", principal, "months", months, "error", err)
		res, err = CalculateEMI(DefaultPrincipal, DefaultTermMonths, AnnualInterestRate)
		if err != nil {
			return generalResponse(profile)
		}
	}

	return fmt.Sprintf(`EMI (Equated Monthly Installment) Calculation:

For a loan of $%s at %s%% annual interest for %d months:

• Monthly EMI: $%.2f
• Total Payment: $%.2f
• Total Interest: $%.2f

EMI = [P × R × (1+R)^N] / [(1+R)^N-1]
Where:
P = Loan amount
R = Monthly interest rate
N = Number of months

This EMI should not exceed 40-50%% of your monthly income for comfortable repayment.`,
		FormatAmount(res.Principal),
		FormatAmount(res.AnnualRate*100),
		res.Months,
		RoundCents(res.Installment),
		RoundCents(res.TotalPayment),
		RoundCents(res.TotalInterest))
}
