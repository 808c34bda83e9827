package advisor

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/model"
)

// Decision boundary for the eligibility answer.
const (
	MinApprovalScore  = 750
	MinApprovalIncome = 50000.0
)

// Representative scores for credit history labels.
const (
	ExcellentCreditScore = 780
	DefaultCreditScore   = 680
)

// CreditScore maps the profile's credit history label to a representative
// score. Only "excellent" earns the high score.
func CreditScore(profile *model.UserProfile) int {
	if profile != nil && profile.CreditHistory == model.CreditHistoryExcellent {
		return ExcellentCreditScore
	}
	return DefaultCreditScore
}

// Assessment is the outcome of the eligibility check.
type Assessment struct {
	CreditScore       int
	AnnualIncome      float64
	LoanAmount        float64
	YearsOfEmployment int
	ScoreShortfall    bool
	IncomeShortfall   bool
}

// Approved reports whether both thresholds are met.
func (a Assessment) Approved() bool {
	return !a.ScoreShortfall && !a.IncomeShortfall
}

// Assess evaluates profile against the approval thresholds.
func Assess(profile *model.UserProfile) Assessment {
	a := Assessment{CreditScore: CreditScore(profile)}
	if profile != nil {
		a.AnnualIncome = nonNegative(profile.AnnualSalary)
		a.LoanAmount = nonNegative(profile.LoanAmount)
		a.YearsOfEmployment = max(profile.YearsOfEmployment, 0)
	}
	a.ScoreShortfall = a.CreditScore < MinApprovalScore
	a.IncomeShortfall = a.AnnualIncome < MinApprovalIncome
	return a
}

func eligibilityResponse(profile *model.UserProfile) string {
	a := Assess(profile)

	if a.Approved() {
		return fmt.Sprintf(`Based on your financial profile, you have a high probability of loan approval!

Key factors:
• Credit Score: %d (Excellent)
• Annual Income: $%s
• Requested Loan: $%s
• Employment: %d years

Your debt-to-income ratio is favorable, and your credit history shows responsible financial behavior. I recommend proceeding with your loan application.`,
			a.CreditScore,
			FormatAmount(a.AnnualIncome),
			FormatAmount(a.LoanAmount),
			a.YearsOfEmployment)
	}

	var b strings.Builder
	b.WriteString("Based on your current financial profile, your loan approval probability is moderate.\n\n")
	b.WriteString("Areas that need improvement:\n")
	if a.ScoreShortfall {
		fmt.Fprintf(&b, "• Credit Score: %d - Consider improving to %d+\n", a.CreditScore, MinApprovalScore)
	}
	if a.IncomeShortfall {
		fmt.Fprintf(&b, "• Annual Income: $%s - A higher income would strengthen your application\n", FormatAmount(a.AnnualIncome))
	}
	b.WriteString(`

Suggestions:
1. Pay down existing debts to improve your credit score
2. Maintain consistent payment history for 6-12 months
3. Consider a co-signer if available
4. Reduce your requested loan amount if possible`)

	return b.String()
}
