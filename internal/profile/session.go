package profile

import (
	"fmt"
	"sync"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
)

// Session holds the signed-in profile. Callers always receive copies.
type Session struct {
	current *model.UserProfile
	mu      sync.RWMutex
}

// NewSession returns a signed-out session.
func NewSession() *Session {
	return &Session{}
}

// Login validates p and makes it the current profile.
func (s *Session) Login(p *model.UserProfile) error {
	if err := Validate(p); err != nil {
		return fmt.Errorf("login rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p.Clone()
	return nil
}

// Logout forgets the current profile.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns a copy of the signed-in profile, or nil.
func (s *Session) Current() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Require returns the signed-in profile or common.ErrNoProfile.
func (s *Session) Require() (*model.UserProfile, error) {
	if p := s.Current(); p != nil {
		return p, nil
	}
	return nil, common.ErrNoProfile
}

// LoggedIn reports whether a profile is signed in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
