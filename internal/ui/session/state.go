// Package session holds per-session control state and the table that binds
// each control to the chart regions it drives.
package session

import (
	"sync"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// Controls is the current value of every dashboard control.
type Controls struct {
	Site    string            `json:"site"`
	Payload core.PayloadRange `json:"payload"`
}

// DefaultControls returns the controls a fresh page load starts with:
// every site and the full payload range of d.
func DefaultControls(d *dataset.Dataset) Controls {
	return Controls{
		Site:    core.AllSites,
		Payload: d.DefaultRange(),
	}
}

// State is the control state of one session.
type State struct {
	mu       sync.Mutex
	controls Controls
}

// NewState creates a state holding c.
func NewState(c Controls) *State {
	return &State{controls: c}
}

// Controls returns a snapshot of the current controls.
func (s *State) Controls() Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls
}

func (s *State) update(fn func(*Controls)) Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.controls)
	return s.controls
}

// Registry maps session ids to their control state.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*State)}
}

// Reset replaces the state of id with a fresh one holding c.
func (r *Registry) Reset(id string, c Controls) *State {
	st := NewState(c)
	r.mu.Lock()
	r.states[id] = st
	r.mu.Unlock()
	return st
}

// Get returns the state of id.
func (r *Registry) Get(id string) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	return st, ok
}

// GetOrReset returns the state of id, creating one holding c if there is none.
func (r *Registry) GetOrReset(id string, c Controls) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[id]; ok {
		return st
	}
	st := NewState(c)
	r.states[id] = st
	return st
}

// Drop removes the state of id if it is still st.
// A page reload replaces the state before the old update stream closes,
// so the stale stream must not remove its successor.
func (r *Registry) Drop(id string, st *State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.states[id]; ok && cur == st {
		delete(r.states, id)
		return true
	}
	return false
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
