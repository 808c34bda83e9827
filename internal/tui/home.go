package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidth   = 32
	chromeLines = 8
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
	focusSearch
)

type homeModel struct {
	input    textinput.Model
	search   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	chats    []model.Chat
	cursor   int
	focus    focusArea
	spinning bool
}

func newHomeModel() homeModel {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Ask about eligibility, credit score, EMI or documents"
	input.CharLimit = 1000

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search chats"
	search.CharLimit = 100

	return homeModel{
		input:    input,
		search:   search,
		viewport: viewport.New(60, 10),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (h *homeModel) resize(width, height int) {
	chatWidth := max(width-listWidth-6, 20)
	h.viewport.Width = chatWidth
	h.viewport.Height = max(height-chromeLines, 3)
	h.input.Width = max(chatWidth-4, 10)
	h.search.Width = listWidth - 4
}

func (h homeModel) selected() (model.Chat, bool) {
	if h.cursor < 0 || h.cursor >= len(h.chats) {
		return model.Chat{}, false
	}
	return h.chats[h.cursor], true
}

// refreshHome reloads the chat list under the current filter and the
// messages of the selected chat.
func (m *Model) refreshHome() {
	chats, err := m.store.ListChats(m.ctx, m.home.search.Value())
	if err != nil {
		m.err = err
		return
	}
	m.home.chats = chats

	current := m.store.CurrentID()
	for i, c := range chats {
		if c.ID == current {
			m.home.cursor = i
		}
	}
	m.home.cursor = min(max(m.home.cursor, 0), max(len(chats)-1, 0))

	chat, err := m.store.CurrentChat(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	if chat == nil {
		m.home.viewport.SetContent(m.theme.StatusPending.Render("No chat selected. Type a question to start one."))
		return
	}
	m.home.viewport.SetContent(m.renderMessages(chat.Messages))
	m.home.viewport.GotoBottom()
}

func (m *Model) focusHome(area focusArea) tea.Cmd {
	m.home.focus = area
	m.home.input.Blur()
	m.home.search.Blur()

	switch area {
	case focusInput:
		return m.home.input.Focus()
	case focusSearch:
		return m.home.search.Focus()
	}
	return nil
}

// ensureSpinner starts the spinner when the selected chat is waiting for
// an answer.
func (m *Model) ensureSpinner() tea.Cmd {
	if m.home.spinning || m.waiting() == 0 {
		return nil
	}
	m.home.spinning = true
	return m.home.spinner.Tick
}

func (m Model) waiting() int {
	id := m.store.CurrentID()
	if id == "" {
		return 0
	}
	return m.service.Pending(id)
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keymap.Delete):
		return m.deleteChat()

	case key.Matches(msg, m.keymap.Search):
		return m, m.focusHome(focusSearch)

	case key.Matches(msg, m.keymap.Profile):
		m.nav.Navigate(navigation.ViewProfile)
		return m, nil

	case key.Matches(msg, m.keymap.Logout):
		m.logout()
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		return m, m.focusHome((m.home.focus + 1) % 3)
	}

	switch m.home.focus {
	case focusList:
		return m.updateChatList(msg)
	case focusSearch:
		return m.updateSearch(msg)
	default:
		return m.updateInput(msg)
	}
}

func (m Model) updateChatList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.home.cursor = max(m.home.cursor-1, 0)
	case key.Matches(msg, m.keymap.Down):
		m.home.cursor = min(m.home.cursor+1, max(len(m.home.chats)-1, 0))
	case key.Matches(msg, m.keymap.Select):
		chat, ok := m.home.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.SelectChat(m.ctx, chat.ID); err != nil {
			m.err = err
			m.refreshHome()
			return m, nil
		}
		m.refreshHome()
		return m, tea.Batch(m.focusHome(focusInput), m.ensureSpinner())
	case key.Matches(msg, m.keymap.Back):
		return m, m.focusHome(focusInput)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back):
		m.home.search.Reset()
		m.refreshHome()
		return m, m.focusHome(focusList)
	case key.Matches(msg, m.keymap.Select):
		return m, m.focusHome(focusList)
	}

	var cmd tea.Cmd
	m.home.search, cmd = m.home.search.Update(msg)
	m.home.cursor = 0
	m.refreshHome()
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Select):
		return m.send()
	case key.Matches(msg, m.keymap.Back):
		return m, m.focusHome(focusList)
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.home.viewport, cmd = m.home.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.home.input, cmd = m.home.input.Update(msg)
	return m, cmd
}

func (m Model) newChat() (tea.Model, tea.Cmd) {
	if _, err := m.store.CreateChat(m.ctx); err != nil {
		m.err = err
		return m, nil
	}
	m.home.search.Reset()
	m.refreshHome()
	return m, m.focusHome(focusInput)
}

// deleteChat removes the highlighted chat from the list, or the open chat
// when the list is not focused.
func (m Model) deleteChat() (tea.Model, tea.Cmd) {
	id := m.store.CurrentID()
	if m.home.focus == focusList {
		if chat, ok := m.home.selected(); ok {
			id = chat.ID
		}
	}
	if id == "" {
		return m, nil
	}

	if err := m.service.DeleteChat(m.ctx, id); err != nil {
		m.err = err
		return m, nil
	}
	m.status = "Chat deleted"
	m.refreshHome()
	return m, nil
}

// send posts the input as a question, starting a chat when none is open.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := m.home.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	chatID := m.store.CurrentID()
	if chatID == "" {
		chat, err := m.store.CreateChat(m.ctx)
		if err != nil {
			m.err = err
			return m, nil
		}
		chatID = chat.ID
	}

	if _, err := m.service.Send(m.ctx, chatID, text); err != nil {
		switch {
		case errors.Is(err, common.ErrEmptyMessage):
			return m, nil
		case errors.Is(err, conversation.ErrClosed):
			m.err = common.NewUserError("The advisor has shut down", err)
		default:
			m.err = err
		}
		m.refreshHome()
		return m, nil
	}

	m.home.input.Reset()
	m.refreshHome()
	return m, m.ensureSpinner()
}

func (m Model) handleReply(r conversation.Reply) (tea.Model, tea.Cmd) {
	if m.current() != navigation.ViewHome {
		return m, nil
	}

	m.refreshHome()
	if r.ChatID != m.store.CurrentID() {
		for _, c := range m.home.chats {
			if c.ID == r.ChatID {
				m.status = "New answer in " + c.Title
			}
		}
	}
	return m, m.ensureSpinner()
}

func (m Model) forwardHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.home.spinning {
			return m, nil
		}
		if m.waiting() == 0 {
			m.home.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.home.spinner, cmd = m.home.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.home.viewport, cmd = m.home.viewport.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.home.input, cmd = m.home.input.Update(msg)
	cmds = append(cmds, cmd)
	m.home.search, cmd = m.home.search.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) renderMessages(msgs []model.ChatMessage) string {
	if len(msgs) == 0 {
		return m.theme.StatusPending.Render("Ask your first question below.")
	}

	body := lipgloss.NewStyle().Width(max(m.home.viewport.Width-1, 10))
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		label := m.theme.AdvisorLabel.Render("Advisor")
		if msg.Role == model.RoleUser {
			label = m.theme.UserLabel.Render("You")
		}
		header := label + " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
		parts = append(parts, header+"\n"+body.Render(msg.Content))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) viewChatList() string {
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Chats"))
	b.WriteString("\n")
	b.WriteString(m.home.search.View())
	b.WriteString("\n\n")

	if len(m.home.chats) == 0 {
		if m.home.search.Value() != "" {
			b.WriteString(m.theme.StatusPending.Render("No matching chats"))
		} else {
			b.WriteString(m.theme.StatusPending.Render("No chats yet"))
		}
	}

	current := m.store.CurrentID()
	for i, c := range m.home.chats {
		line := c.Title
		if c.ID == current {
			line = "● " + line
		} else {
			line = "  " + line
		}
		if i == m.home.cursor && m.home.focus == focusList {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := m.theme.Panel
	if m.home.focus != focusInput {
		style = m.theme.FocusedPanel
	}
	return style.Width(listWidth).Height(m.home.viewport.Height + 2).Render(b.String())
}

func (m Model) viewHome() string {
	title := "New conversation"
	if chat, err := m.store.CurrentChat(m.ctx); err == nil && chat != nil {
		title = chat.Title
	}

	pending := ""
	if n := m.waiting(); n > 0 {
		pending = m.home.spinner.View() + m.theme.StatusPending.Render(fmt.Sprintf(" Advisor is thinking (%d)", n))
	}

	inputStyle := m.theme.Panel
	if m.home.focus == focusInput {
		inputStyle = m.theme.FocusedPanel
	}

	chatPane := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(title),
		m.theme.Panel.Render(m.home.viewport.View()),
		pending,
		inputStyle.Render(m.home.input.View()),
	)

	header := m.theme.Title.Render("🏦 Loan Advisor") + "  " +
		m.theme.Subtitle.Render("Signed in as "+m.session.Current().DisplayName())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, m.viewChatList(), " ", chatPane),
		m.help.View(m.keymap),
	)
}
