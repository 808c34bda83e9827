package tui

import (
	"context"

	"github.com/Veraticus/loan-advisor/internal/conversation"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/Veraticus/loan-advisor/internal/navigation"
	"github.com/Veraticus/loan-advisor/internal/profile"
	"github.com/Veraticus/loan-advisor/internal/session"
	"github.com/Veraticus/loan-advisor/internal/tui/themes"
)

// ProfileLoader reads a profile from path.
type ProfileLoader func(ctx context.Context, path string) (*model.UserProfile, error)

// Config holds the TUI's collaborators and settings.
type Config struct {
	Theme       themes.Theme
	Navigator   *navigation.Broadcaster
	Store       *session.Store
	Service     *conversation.Service
	Session     *profile.Session
	LoadProfile ProfileLoader
	ProfilePath string
	Width       int
	Height      int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 30,
		LoadProfile: func(_ context.Context, path string) (*model.UserProfile, error) {
			return profile.Load(path)
		},
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithNavigator sets the navigation broadcaster the router follows.
func WithNavigator(nav *navigation.Broadcaster) Option {
	return func(c *Config) {
		c.Navigator = nav
	}
}

// WithConversation sets the chat store and the service that answers in it.
func WithConversation(store *session.Store, svc *conversation.Service) Option {
	return func(c *Config) {
		c.Store = store
		c.Service = svc
	}
}

// WithSession sets the signed-in profile holder.
func WithSession(s *profile.Session) Option {
	return func(c *Config) {
		c.Session = s
	}
}

// WithProfileSource sets the default profile path and how it is loaded.
// A nil loader keeps the file loader.
func WithProfileSource(path string, load ProfileLoader) Option {
	return func(c *Config) {
		c.ProfilePath = path
		if load != nil {
			c.LoadProfile = load
		}
	}
}
