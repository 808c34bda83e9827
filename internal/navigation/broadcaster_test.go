package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DefaultsToLanding(t *testing.T) {
	assert.Equal(t, ViewLanding, New("").Current())
	assert.Equal(t, ViewHome, New(ViewHome).Current())
}

func TestBroadcaster_NotifiesInRegistrationOrder(t *testing.T) {
	b := New(ViewLanding)

	var calls []string
	b.Subscribe(func(v View) { calls = append(calls, "first:"+string(v)) })
	b.Subscribe(func(v View) { calls = append(calls, "second:"+string(v)) })

	b.Navigate(ViewLogin)

	assert.Equal(t, []string{"first:login", "second:login"}, calls)
	assert.Equal(t, ViewLogin, b.Current())
}

func TestBroadcaster_SubscriberSeesOnlyViewsWhileSubscribed(t *testing.T) {
	b := New(ViewLanding)

	var early, late []View
	earlyHandle := b.Subscribe(func(v View) { early = append(early, v) })

	b.Navigate(ViewLogin)
	lateHandle := b.Subscribe(func(v View) { late = append(late, v) })
	b.Navigate(ViewHome)
	b.Unsubscribe(earlyHandle)
	b.Navigate(ViewProfile)
	b.Unsubscribe(lateHandle)
	b.Navigate(ViewLanding)

	assert.Equal(t, []View{ViewLogin, ViewHome}, early)
	assert.Equal(t, []View{ViewHome, ViewProfile}, late)
	assert.Equal(t, 0, b.Len())
}

func TestBroadcaster_UnsubscribeRemovesOnlyThatHandle(t *testing.T) {
	b := New(ViewLanding)

	shared := func(View) {}
	first := b.Subscribe(shared)
	b.Subscribe(shared)

	b.Unsubscribe(first)
	assert.Equal(t, 1, b.Len())

	// Removing twice, or a handle that was never issued, is harmless.
	b.Unsubscribe(first)
	b.Unsubscribe(Handle(999))
	assert.Equal(t, 1, b.Len())
}

func TestBroadcaster_SnapshotDuringNotification(t *testing.T) {
	t.Run("added during notify waits for next navigation", func(t *testing.T) {
		b := New(ViewLanding)

		var added []View
		b.Subscribe(func(View) {
			if len(added) == 0 && b.Len() == 1 {
				b.Subscribe(func(v View) { added = append(added, v) })
			}
		})

		b.Navigate(ViewLogin)
		assert.Empty(t, added)

		b.Navigate(ViewHome)
		assert.Equal(t, []View{ViewHome}, added)
	})

	t.Run("removed during notify is skipped", func(t *testing.T) {
		b := New(ViewLanding)

		var second Handle
		var secondCalls int
		b.Subscribe(func(View) { b.Unsubscribe(second) })
		second = b.Subscribe(func(View) { secondCalls++ })

		b.Navigate(ViewLogin)
		assert.Zero(t, secondCalls)
	})

	t.Run("subscriber may unsubscribe itself", func(t *testing.T) {
		b := New(ViewLanding)

		var self Handle
		var calls int
		self = b.Subscribe(func(View) {
			calls++
			b.Unsubscribe(self)
		})

		b.Navigate(ViewLogin)
		b.Navigate(ViewHome)
		assert.Equal(t, 1, calls)
	})
}

func TestBroadcaster_NavigateCompletesBeforeReturning(t *testing.T) {
	b := New(ViewLanding)

	var seen View
	b.Subscribe(func(v View) {
		// Current is already updated when subscribers run.
		seen = b.Current()
	})

	b.Navigate(ViewProfile)
	require.Equal(t, ViewProfile, seen)
}

func TestBroadcaster_UnknownViewsAreStoredAndResolved(t *testing.T) {
	b := New(ViewLanding)

	var got []View
	b.Subscribe(func(v View) { got = append(got, v) })

	b.Navigate(View("settings"))

	assert.Equal(t, View("settings"), b.Current())
	assert.Equal(t, []View{"settings"}, got)
	assert.False(t, Known(b.Current()))
	assert.Equal(t, ViewLanding, Resolve(b.Current()))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		in   View
		want View
	}{
		{ViewLanding, ViewLanding},
		{ViewLogin, ViewLogin},
		{ViewSignup, ViewSignup},
		{ViewHome, ViewHome},
		{ViewProfile, ViewProfile},
		{"", ViewLanding},
		{"HOME", ViewLanding},
		{"dashboard", ViewLanding},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in))
		})
	}
}
