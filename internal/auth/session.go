package auth

import (
	"sync"

	"reclaim/pkg/types"
)

// Sessions broadcasts session transitions to subscribers: the Go shape
// of the provider's auth-state-changed callback stream. A subscriber is
// invoked once immediately with the current state, then on every
// publish, until its cancel function runs.
type Sessions struct {
	mu      sync.Mutex
	current *types.Profile
	nextID  int
	subs    map[int]func(*types.Profile)
}

func NewSessions() *Sessions {
	return &Sessions{subs: make(map[int]func(*types.Profile))}
}

// Subscribe registers a callback and delivers the current session to it
// before returning. The returned cancel function unsubscribes; once it
// returns, no further callbacks run. Deliveries happen under the
// registry lock, so callbacks must not call back into Sessions.
func (s *Sessions) Subscribe(fn func(*types.Profile)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	fn(s.current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Publish records the new session state (nil on logout) and notifies
// every live subscriber.
func (s *Sessions) Publish(profile *types.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = profile
	for _, fn := range s.subs {
		fn(profile)
	}
}

// Current returns the last published session, nil when signed out.
func (s *Sessions) Current() *types.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
