package model

import "strings"

// EmploymentType classifies how the applicant is employed.
type EmploymentType string

// Employment types accepted on a profile.
const (
	EmploymentGovernment    EmploymentType = "government"
	EmploymentPrivate       EmploymentType = "private"
	EmploymentStartup       EmploymentType = "startup"
	EmploymentContractBased EmploymentType = "contract_based"
	EmploymentUnemployed    EmploymentType = "unemployed"
)

// EmploymentTypes lists every recognized employment type.
var EmploymentTypes = []EmploymentType{
	EmploymentGovernment,
	EmploymentPrivate,
	EmploymentStartup,
	EmploymentContractBased,
	EmploymentUnemployed,
}

// IsValid reports whether e is one of the recognized employment types.
// An empty value is valid and means the field was not provided.
func (e EmploymentType) IsValid() bool {
	if e == "" {
		return true
	}
	for _, known := range EmploymentTypes {
		if e == known {
			return true
		}
	}
	return false
}

// CreditHistoryExcellent is the credit history label that maps to the
// high representative score.
const CreditHistoryExcellent = "excellent"

// UserProfile is the applicant's financial and demographic record.
// The advisory engine reads it but never modifies it; absent numbers are
// zero and absent strings are empty.
type UserProfile struct {
	ID                       string         `mapstructure:"id"`
	Email                    string         `mapstructure:"email"`
	Username                 string         `mapstructure:"username"`
	Gender                   string         `mapstructure:"gender"`
	Education                string         `mapstructure:"education"`
	MaritalStatus            string         `mapstructure:"marital_status"`
	Nationality              string         `mapstructure:"nationality"`
	JobType                  string         `mapstructure:"job_type"`
	EmploymentType           EmploymentType `mapstructure:"employment_type"`
	PreviousLoansStatus      string         `mapstructure:"previous_loans_status"`
	LoanPurpose              string         `mapstructure:"loan_purpose"`
	CreditHistory            string         `mapstructure:"credit_history"`
	AnnualSalary             float64        `mapstructure:"annual_salary"`
	CollateralValue          float64        `mapstructure:"collateral_value"`
	PreviousLoanAmount       float64        `mapstructure:"previous_loan_amount"`
	TotalEMIAmount           float64        `mapstructure:"total_emi_amount"`
	SavingBankBalance        float64        `mapstructure:"saving_bank_balance"`
	LoanAmount               float64        `mapstructure:"loan_amount"`
	RentIncome               float64        `mapstructure:"rent_income"`
	InterestIncome           float64        `mapstructure:"interest_income"`
	AverageCreditUtilization float64        `mapstructure:"average_credit_utilization"`
	Age                      int            `mapstructure:"age"`
	Dependents               int            `mapstructure:"dependents"`
	YearsOfEmployment        int            `mapstructure:"years_of_employment"`
	RepaymentTermMonths      int            `mapstructure:"repayment_term_months"`
	NumberOfCreditCards      int            `mapstructure:"number_of_credit_cards"`
	PreviousLoans            bool           `mapstructure:"previous_loans"`
	LatePaymentHistory       bool           `mapstructure:"late_payment_history"`
	LoanInsurance            bool           `mapstructure:"loan_insurance"`
}

// Clone returns a copy of the profile, or nil for a nil profile.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// DisplayName returns the username, falling back to the email or "Profile".
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return "Profile"
	}
	if name := strings.TrimSpace(p.Username); name != "" {
		return name
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		return email
	}
	return "Profile"
}
