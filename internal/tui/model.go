// Package tui is the terminal front end: a router that follows the
// navigation broadcaster and renders the landing, login, signup, home and
// profile views.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/Veraticus/loan-advisor/internal/profile"
	"github.com/Veraticus/loan-advisor/internal/session"
	"github.com/Veraticus/loan-advisor/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// viewQueueSize bounds buffered navigation events. The rendered view is
// always read from the broadcaster, so a dropped event only skips the
// on-enter refresh of a view that is no longer current.
const viewQueueSize = 16

// Model is the root bubbletea model.
type Model struct {
	ctx         context.Context
	err         error
	nav         *navigation.Broadcaster
	store       *session.Store
	service     *conversation.Service
	session     *profile.Session
	loadProfile ProfileLoader
	views       chan navigation.View
	initCmd     tea.Cmd
	theme       themes.Theme
	help        help.Model
	keymap      KeyMap
	status      string
	profilePath string
	login       loginModel
	home        homeModel
	handle      navigation.Handle
	width       int
	height      int
	quitting    bool
}

// New builds the root model and subscribes it to the navigator. Call Close
// once the program has exited.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Navigator == nil {
		return Model{}, errors.New("navigator is required")
	}
	if cfg.Store == nil || cfg.Service == nil {
		return Model{}, errors.New("chat store and conversation service are required")
	}
	if cfg.Session == nil {
		cfg.Session = profile.NewSession()
	}

	views := make(chan navigation.View, viewQueueSize)
	handle := cfg.Navigator.Subscribe(func(v navigation.View) {
		select {
		case views <- v:
		default:
			slog.Debug("Navigation queue full, dropping event", "view", v)
		}
	})

	m := Model{
		ctx:         ctx,
		nav:         cfg.Navigator,
		store:       cfg.Store,
		service:     cfg.Service,
		session:     cfg.Session,
		loadProfile: cfg.LoadProfile,
		profilePath: cfg.ProfilePath,
		views:       views,
		handle:      handle,
		theme:       cfg.Theme,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		width:       cfg.Width,
		height:      cfg.Height,
		login:       newLoginModel(cfg.ProfilePath),
		home:        newHomeModel(),
	}
	m.resize()
	m.initCmd = m.enter(cfg.Navigator.Current())

	return m, nil
}

// Close unsubscribes the model from the navigator.
func (m Model) Close() {
	m.nav.Unsubscribe(m.handle)
}

// Init starts listening for navigation events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForView(), m.initCmd)
}

func (m Model) waitForView() tea.Cmd {
	ctx, views := m.ctx, m.views
	return func() tea.Msg {
		select {
		case v := <-views:
			return navigatedMsg{view: v}
		case <-ctx.Done():
			return nil
		}
	}
}

// current is the view being displayed; unknown views render as landing.
func (m Model) current() navigation.View {
	return navigation.Resolve(m.nav.Current())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) || key.Matches(msg, m.keymap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.status = ""
		m.err = nil
		return m.updateKeys(msg)

	case navigatedMsg:
		var cmd tea.Cmd
		// Stale events are skipped; only the view still current is entered.
		if msg.view == m.nav.Current() {
			cmd = m.enter(msg.view)
		}
		return m, tea.Batch(cmd, m.waitForView())

	case replyMsg:
		return m.handleReply(msg.reply)

	case errorMsg:
		m.err = msg.err
		return m, nil
	}

	return m.forward(msg)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.current() {
	case navigation.ViewLogin:
		return m.updateLogin(msg)
	case navigation.ViewSignup:
		return m.updateSignup(msg)
	case navigation.ViewHome:
		return m.updateHome(msg)
	case navigation.ViewProfile:
		return m.updateProfile(msg)
	default:
		return m.updateLanding(msg)
	}
}

// forward passes non-key messages (cursor blink, spinner ticks, viewport
// scrolling) to the active view's components.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.current() {
	case navigation.ViewLogin:
		var cmd tea.Cmd
		m.login.input, cmd = m.login.input.Update(msg)
		return m, cmd
	case navigation.ViewHome:
		return m.forwardHome(msg)
	}
	return m, nil
}

// enter runs when a view becomes current. Views that need a signed-in
// profile bounce to login.
func (m *Model) enter(v navigation.View) tea.Cmd {
	v = navigation.Resolve(v)
	m.err = nil

	switch v {
	case navigation.ViewHome, navigation.ViewProfile:
		if !m.session.LoggedIn() {
			m.status = "Please sign in first"
			m.nav.Navigate(navigation.ViewLogin)
			return nil
		}
	}

	switch v {
	case navigation.ViewLogin:
		return m.login.reset(m.profilePath)
	case navigation.ViewHome:
		m.refreshHome()
		return tea.Batch(m.focusHome(focusInput), m.ensureSpinner())
	}
	return nil
}

func (m *Model) logout() {
	m.session.Logout()
	m.store.ClearSelection()
	m.home = newHomeModel()
	m.resize()
	m.status = "Signed out"
	m.nav.Navigate(navigation.ViewLanding)
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.home.resize(m.width, m.height)
}

// View renders the current view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.current() {
	case navigation.ViewLogin:
		body = m.viewLogin()
	case navigation.ViewSignup:
		body = m.viewSignup()
	case navigation.ViewHome:
		body = m.viewHome()
	case navigation.ViewProfile:
		body = m.viewProfile()
	default:
		body = m.viewLanding()
	}

	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.theme.StatusError.Render(fmt.Sprintf("Error: %s", common.UserMessage(m.err)))
	case m.status != "":
		return m.theme.StatusPending.Render(m.status)
	default:
		return ""
	}
}
