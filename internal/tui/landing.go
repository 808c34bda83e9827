package tui

import (
	"strings"

	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Select):
		if m.session.LoggedIn() {
			m.nav.Navigate(navigation.ViewHome)
		} else {
			m.nav.Navigate(navigation.ViewLogin)
		}
	case key.Matches(msg, m.keymap.Signup):
		m.nav.Navigate(navigation.ViewSignup)
	}
	return m, nil
}

func (m Model) viewLanding() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("🏦 Loan Advisor"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Ask about eligibility, credit scores, EMIs and the documents you need."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Bold.Render("Enter") + " sign in    " + m.theme.Bold.Render("Ctrl+S") + " sign up    " + m.theme.Bold.Render("Ctrl+Q") + " quit")

	return lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center,
		m.theme.RoundedBox.Render(b.String()))
}
