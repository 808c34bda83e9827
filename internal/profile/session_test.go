package profile

import (
	"sync"
	"testing"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoginLogout(t *testing.T) {
	s := NewSession()
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.Current())

	_, err := s.Require()
	assert.ErrorIs(t, err, common.ErrNoProfile)

	p := &model.UserProfile{Username: "priya", AnnualSalary: 60000}
	require.NoError(t, s.Login(p))
	assert.True(t, s.LoggedIn())

	got, err := s.Require()
	require.NoError(t, err)
	assert.Equal(t, "priya", got.Username)

	// Copies in both directions.
	p.Username = "changed"
	got.AnnualSalary = 1
	assert.Equal(t, "priya", s.Current().Username)
	assert.InDelta(t, 60000, s.Current().AnnualSalary, 0)

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.Current())
}

func TestSession_LoginRejectsInvalidProfile(t *testing.T) {
	s := NewSession()

	err := s.Login(&model.UserProfile{AnnualSalary: -1})
	assert.ErrorIs(t, err, common.ErrInvalidProfile)
	assert.False(t, s.LoggedIn())

	assert.ErrorIs(t, s.Login(nil), common.ErrInvalidProfile)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Login(&model.UserProfile{Age: i}))
		}()
		go func() {
			defer wg.Done()
			_ = s.Current()
		}()
	}
	wg.Wait()

	assert.True(t, s.LoggedIn())
}
