package service

import (
	"context"
	"errors"
	"sync"

	"hostpanel/internal/domain"
)

var (
	// ErrSessionBusy is returned when a session already has an action in flight.
	ErrSessionBusy = errors.New("browser session is busy")
	// ErrNoSession is returned for actions on a session that was never opened.
	ErrNoSession = errors.New("no browser session")
)

// SessionRegistry keeps one BrowserState per adapter session and serializes the
// actions on each of them.
type SessionRegistry struct {
	mu     sync.Mutex
	states map[string]domain.BrowserState
	busy   inflight
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{states: make(map[string]domain.BrowserState)}
}

// Get returns the stored state of id.
func (r *SessionRegistry) Get(id string) (domain.BrowserState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[id]
	return s, ok
}

// Start runs fn for a new or reopened session and stores its state.
func (r *SessionRegistry) Start(id string, fn func() domain.BrowserState) error {
	if !r.busy.Begin(id) {
		return ErrSessionBusy
	}
	defer r.busy.End(id)

	next := fn()
	r.put(id, next)
	return nil
}

// Update runs fn on the stored state of id and stores the result.
func (r *SessionRegistry) Update(id string, fn func(domain.BrowserState) domain.BrowserState) error {
	if !r.busy.Begin(id) {
		return ErrSessionBusy
	}
	defer r.busy.End(id)

	cur, ok := r.Get(id)
	if !ok {
		return ErrNoSession
	}
	r.put(id, fn(cur))
	return nil
}

// Delete forgets the session.
func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, id)
}

// Wait blocks until in-flight actions finish or ctx is done.
func (r *SessionRegistry) Wait(ctx context.Context) {
	r.busy.Wait(ctx)
}

func (r *SessionRegistry) put(id string, s domain.BrowserState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[id] = s
}
