package tui

import (
	"errors"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	input textinput.Model
}

func newLoginModel(path string) loginModel {
	input := textinput.New()
	input.Prompt = "Profile file: "
	input.Placeholder = "~/.config/advisor/profile.yaml"
	input.CharLimit = 512
	input.Width = 60
	input.SetValue(path)
	return loginModel{input: input}
}

func (l *loginModel) reset(path string) tea.Cmd {
	if strings.TrimSpace(l.input.Value()) == "" {
		l.input.SetValue(path)
	}
	l.input.CursorEnd()
	return l.input.Focus()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back):
		m.login.input.Blur()
		m.nav.Navigate(navigation.ViewLanding)
		return m, nil

	case key.Matches(msg, m.keymap.Signup):
		m.login.input.Blur()
		m.nav.Navigate(navigation.ViewSignup)
		return m, nil

	case key.Matches(msg, m.keymap.Select):
		return m.signIn()
	}

	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return m, cmd
}

func (m Model) signIn() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.login.input.Value())

	p, err := m.loadProfile(m.ctx, path)
	if err == nil {
		err = m.session.Login(p)
	}
	if err != nil {
		m.err = loginError(err)
		return m, nil
	}

	m.login.input.Blur()
	m.status = "Signed in as " + p.DisplayName()
	m.nav.Navigate(navigation.ViewHome)
	return m, nil
}

func loginError(err error) error {
	switch {
	case errors.Is(err, common.ErrNoProfile):
		return common.NewUserError("No profile at that path. Press Ctrl+S to see how to create one", err)
	case errors.Is(err, common.ErrInvalidProfile):
		return common.NewUserError("The profile has invalid values", err)
	default:
		return err
	}
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Your profile is read from a local YAML, JSON or TOML file."))
	b.WriteString("\n\n")
	b.WriteString(m.login.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.StatusPending.Render("Enter sign in • Ctrl+S sign up • Esc back"))
	return m.theme.RoundedBox.Render(b.String())
}
