package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/advisor"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.Profile):
		m.nav.Navigate(navigation.ViewHome)
	case key.Matches(msg, m.keymap.Logout):
		m.logout()
	}
	return m, nil
}

func (m Model) viewProfile() string {
	p := m.session.Current()
	a := advisor.Assess(p)
	principal, months := advisor.LoanTerms(p)

	row := func(label, value string) string {
		if strings.TrimSpace(value) == "" {
			value = advisor.NotSpecified
		}
		return fmt.Sprintf("%-18s %s", label, m.theme.Normal.Render(value))
	}
	money := func(v float64) string {
		if v <= 0 {
			return advisor.NotProvided
		}
		return "$" + advisor.FormatAmount(v)
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(p.DisplayName()))
	b.WriteString("\n")

	var rows []string
	if p != nil {
		rows = []string{
			row("Email", p.Email),
			row("Employment", string(p.EmploymentType)),
			row("Years employed", fmt.Sprintf("%d", p.YearsOfEmployment)),
			row("Annual salary", money(p.AnnualSalary)),
			row("Savings balance", money(p.SavingBankBalance)),
			row("Credit history", p.CreditHistory),
			row("Loan purpose", p.LoanPurpose),
		}
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n\n")

	verdict := m.theme.StatusSuccess.Render(fmt.Sprintf("Credit score %d meets approval thresholds", a.CreditScore))
	if !a.Approved() {
		verdict = m.theme.StatusWarning.Render(fmt.Sprintf("Credit score %d, below approval thresholds", a.CreditScore))
	}
	b.WriteString(verdict)
	b.WriteString("\n\n")

	if res, err := advisor.CalculateEMI(principal, months, advisor.AnnualInterestRate); err == nil {
		b.WriteString(m.theme.Bold.Render("EMI preview"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("$%s over %d months at %s%%: $%.2f a month, $%.2f interest",
			advisor.FormatAmount(principal), months,
			advisor.FormatAmount(advisor.AnnualInterestRate*100),
			advisor.RoundCents(res.Installment),
			advisor.RoundCents(res.TotalInterest)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.StatusPending.Render("Esc back • Ctrl+O log out"))
	return m.theme.RoundedBox.Render(b.String())
}
