package checkout

import (
	"errors"
	"fmt"
	"sync"
)

// State is the checkout attempt state of a shop session.
type State string

const (
	Idle        State = "idle"
	Requesting  State = "requesting"
	Redirecting State = "redirecting"
	Failed      State = "failed"
)

var transitions = map[State][]State{
	Idle:       {Requesting},
	Requesting: {Redirecting, Failed},
	Failed:     {Idle},
}

var (
	ErrInvalidTransition = errors.New("invalid checkout state transition")
	ErrInProgress        = errors.New("checkout already in progress")
)

// Tracker holds the checkout state of one shop session.
type Tracker struct {
	mu    sync.Mutex
	state State
}

func NewTracker() *Tracker {
	return &Tracker{state: Idle}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Transition moves the tracker to the next state if the move is allowed.
func (t *Tracker) Transition(to State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitionLocked(to)
}

func (t *Tracker) transitionLocked(to State) error {
	for _, next := range transitions[t.state] {
		if next == to {
			t.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, to)
}

// Begin starts an attempt, resetting a failed one first.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case Requesting:
		return ErrInProgress
	case Failed:
		t.state = Idle
	}
	return t.transitionLocked(Requesting)
}

// Trackers keeps one Tracker per shop session.
type Trackers struct {
	mu sync.Mutex
	m  map[string]*Tracker
}

func NewTrackers() *Trackers {
	return &Trackers{m: make(map[string]*Tracker)}
}

// For returns the session's tracker. A session whose last attempt already
// redirected gets a fresh tracker.
func (ts *Trackers) For(sessionID string) *Tracker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.m[sessionID]
	if !ok || t.State() == Redirecting {
		t = NewTracker()
		ts.m[sessionID] = t
	}
	return t
}

func (ts *Trackers) Drop(sessionID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.m, sessionID)
}
