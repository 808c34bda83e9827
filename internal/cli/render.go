package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// RenderTranscript writes every message of chat, oldest first.
func RenderTranscript(w io.Writer, chat model.Chat) error {
	var b strings.Builder
	b.WriteString(FormatTitle(chat.Title))
	b.WriteString("\n")

	for _, msg := range chat.Messages {
		b.WriteString(formatMessage(msg))
		b.WriteString("\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatMessage(msg model.ChatMessage) string {
	stamp := SubtleStyle.Render(msg.Timestamp.Format("15:04:05"))
	switch msg.Role {
	case model.RoleUser:
		return fmt.Sprintf("%s %s %s\n%s", UserIcon, UserStyle.Render("You"), stamp, msg.Content)
	default:
		return fmt.Sprintf("%s %s %s\n%s", AdvisorIcon, AssistantStyle.Render("Advisor"), stamp, msg.Content)
	}
}

// RenderEMI writes the installment summary for res and, when schedule is
// set, the month-by-month amortization table.
func RenderEMI(w io.Writer, res advisor.EMIResult, schedule bool) error {
	summary := fmt.Sprintf("Principal:      $%s\n", advisor.FormatAmount(res.Principal)) +
		fmt.Sprintf("Annual rate:    %s%%\n", advisor.FormatAmount(res.AnnualRate*100)) +
		fmt.Sprintf("Term:           %d months\n", res.Months) +
		fmt.Sprintf("Monthly EMI:    $%.2f\n", advisor.RoundCents(res.Installment)) +
		fmt.Sprintf("Total payment:  $%.2f\n", advisor.RoundCents(res.TotalPayment)) +
		fmt.Sprintf("Total interest: $%.2f", advisor.RoundCents(res.TotalInterest))

	if _, err := fmt.Fprintln(w, RenderBox("EMI", summary)); err != nil {
		return err
	}
	if !schedule {
		return nil
	}

	header := TableHeaderStyle.Render(fmt.Sprintf("%5s  %12s  %12s  %12s  %14s", "Month", "Payment", "Interest", "Principal", "Balance"))
	rows := []string{header}
	for _, row := range advisor.AmortizationSchedule(res) {
		rows = append(rows, fmt.Sprintf("%5d  %12.2f  %12.2f  %12.2f  %14.2f",
			row.Month,
			advisor.RoundCents(row.Payment),
			advisor.RoundCents(row.Interest),
			advisor.RoundCents(row.Principal),
			advisor.RoundCents(row.Balance)))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, rows...))
	return err
}

// RenderProfile writes the profile's key fields and its eligibility
// assessment.
func RenderProfile(w io.Writer, p *model.UserProfile) error {
	if p == nil {
		p = &model.UserProfile{}
	}
	a := advisor.Assess(p)
	principal, months := advisor.LoanTerms(p)

	lines := []string{
		field("Email", p.Email),
		field("Employment", string(p.EmploymentType)),
		field("Credit history", p.CreditHistory),
		field("Annual salary", money(p.AnnualSalary)),
		field("Savings balance", money(p.SavingBankBalance)),
		field("Interest income", money(p.InterestIncome)),
		field("Loan requested", fmt.Sprintf("$%s over %d months", advisor.FormatAmount(principal), months)),
		field("Years employed", fmt.Sprintf("%d", p.YearsOfEmployment)),
		field("Credit score", fmt.Sprintf("%d", a.CreditScore)),
	}

	verdict := FormatSuccess("Meets approval thresholds")
	if !a.Approved() {
		verdict = FormatWarning("Below approval thresholds")
	}
	lines = append(lines, "", verdict)

	_, err := fmt.Fprintln(w, RenderBox(p.DisplayName(), strings.Join(lines, "\n")))
	return err
}

func field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = advisor.NotSpecified
	}
	return fmt.Sprintf("%-16s %s", label+":", value)
}

func money(v float64) string {
	if v <= 0 {
		return advisor.NotProvided
	}
	return "$" + advisor.FormatAmount(v)
}
