package advisor

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/model"
)

const creditScoreGuide = `Your credit score is a crucial factor in loan approval. Here's what you need to know:

• Excellent (750+): Best rates, highest approval chance
• Good (700-749): Favorable rates, good approval odds
• Fair (650-699): Higher rates, moderate approval
• Poor (<650): Limited options, may need improvement

To improve your credit score:
1. Pay all bills on time
2. Keep credit utilization below 30%
3. Don't close old credit accounts
4. Limit new credit applications
5. Regularly check your credit report for errors`

const documentChecklist = `Required documents for loan application:

1. Identity Proof:
   • Government-issued ID
   • Passport or Driver's License

2. Income Proof:
   • Last 3 months salary slips
   • Bank statements (6 months)
   • Income tax returns (2 years)

3. Employment Proof:
   • Employment letter
   • Offer letter or contract

4. Address Proof:
   • Utility bills
   • Rental agreement

5. Property Documents (for home loans):
   • Sale agreement
   • Property title documents
   • Valuation report

Ensure all documents are up-to-date and clearly legible.`

// Placeholders echoed when a profile field is missing.
const (
	NotProvided  = "Not provided"
	NotSpecified = "Not specified"
)

func generalResponse(profile *model.UserProfile) string {
	income := NotProvided
	history := NotSpecified
	years := 0

	if profile != nil {
		if salary := nonNegative(profile.AnnualSalary); salary > 0 {
			income = "$" + FormatAmount(salary)
		}
		if h := strings.TrimSpace(profile.CreditHistory); h != "" {
			history = h
		}
		years = max(profile.YearsOfEmployment, 0)
	}

	return fmt.Sprintf(`I'm here to help you with your loan application! I can assist with:

• Loan eligibility assessment
• Credit score guidance
• EMI calculations
• Document requirements
• Application tips
• Financial advice

Based on your profile:
• Annual Income: %s
• Credit History: %s
• Employment: %d years

What specific information would you like to know?`, income, history, years)
}
