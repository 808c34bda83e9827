// Package navigation tracks which application view is active and notifies
// interested views when it changes.
package navigation

import (
	"log/slog"
	"slices"
	"sync"
)

// View names an application view.
type View string

// Application views.
const (
	ViewLanding View = "landing"
	ViewLogin   View = "login"
	ViewSignup  View = "signup"
	ViewHome    View = "home"
	ViewProfile View = "profile"
)

// DefaultView is both the initial view and the fallback for unrecognized
// view names.
const DefaultView = ViewLanding

var knownViews = []View{ViewLanding, ViewLogin, ViewSignup, ViewHome, ViewProfile}

// Known reports whether v is one of the application views.
func Known(v View) bool {
	return slices.Contains(knownViews, v)
}

// Resolve maps v to a renderable view, falling back to DefaultView for
// names nothing can render.
func Resolve(v View) View {
	if Known(v) {
		return v
	}
	return DefaultView
}

// Handle identifies a subscription. The zero Handle is never issued.
type Handle uint64

// Subscriber is notified with the new view after every Navigate.
type Subscriber func(View)

type subscription struct {
	fn     Subscriber
	handle Handle
}

// Broadcaster holds the current view and fans changes out to subscribers.
type Broadcaster struct {
	current View
	subs    []subscription
	next    Handle
	mu      sync.Mutex
}

// New creates a broadcaster positioned on initial. An empty initial view
// starts on DefaultView.
func New(initial View) *Broadcaster {
	if initial == "" {
		initial = DefaultView
	}
	return &Broadcaster{current: initial}
}

// Subscribe registers fn for every subsequent navigation.
func (b *Broadcaster) Subscribe(fn Subscriber) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.subs = append(b.subs, subscription{handle: b.next, fn: fn})
	return b.next
}

// Unsubscribe removes the subscription identified by h. Unknown or
// already-removed handles are ignored.
func (b *Broadcaster) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool {
		return s.handle == h
	})
}

// Navigate makes v the current view and notifies subscribers in
// registration order before returning. The subscriber list is snapshotted
// first: subscriptions added during notification wait for the next call,
// and subscriptions removed during notification are skipped if not yet
// reached.
func (b *Broadcaster) Navigate(v View) {
	b.mu.Lock()
	b.current = v
	snapshot := slices.Clone(b.subs)
	b.mu.Unlock()

	if !Known(v) {
		slog.Debug("Navigating to unrecognized view", "view", v)
	}

	for _, s := range snapshot {
		if !b.active(s.handle) {
			continue
		}
		s.fn(v)
	}
}

// Current returns the current view.
func (b *Broadcaster) Current() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Len returns the number of live subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) active(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.ContainsFunc(b.subs, func(s subscription) bool {
		return s.handle == h
	})
}
