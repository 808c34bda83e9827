package tui

import (
	"strings"

	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// profileTemplate is shown on the signup view as a starting point.
const profileTemplate = `username: jane
email: jane@example.com
employment_type: private      # government, private, startup, contract_based, unemployed
years_of_employment: 4
annual_salary: 65000
credit_history: excellent
saving_bank_balance: 12000
loan_amount: 150000
repayment_term_months: 84
loan_purpose: home renovation`

func (m Model) updateSignup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Select):
		m.nav.Navigate(navigation.ViewLogin)
	case key.Matches(msg, m.keymap.Back):
		m.nav.Navigate(navigation.ViewLanding)
	}
	return m, nil
}

func (m Model) viewSignup() string {
	path := m.profilePath
	if path == "" {
		path = "a profile file"
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Sign up"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Save your details to " + path + ", then sign in. Only the fields you know are needed."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Code.Render(profileTemplate))
	b.WriteString("\n\n")
	b.WriteString(m.theme.StatusPending.Render("Enter go to sign in • Esc back"))
	return m.theme.RoundedBox.Render(b.String())
}
