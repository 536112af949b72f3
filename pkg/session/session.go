// Package session holds the live selection state: one chosen value per
// field key. Coverage analysis probes thousands of synthetic selections
// against the same state, so the save/probe/restore discipline lives here.
package session

import "sync"

// SelectionState maps field keys to the currently chosen value. Safe for
// concurrent readers; Probe serializes whole probe cycles so a probe is
// atomic with respect to any other reader.
type SelectionState struct {
	probeMu sync.Mutex

	mu     sync.Mutex
	values map[string]string
}

func New() *SelectionState {
	return &SelectionState{values: map[string]string{}}
}

// FromMap builds a state pre-populated with the given selections.
func FromMap(m map[string]string) *SelectionState {
	s := New()
	for k, v := range m {
		s.values[k] = v
	}
	return s
}

func (s *SelectionState) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *SelectionState) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *SelectionState) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *SelectionState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Snapshot returns a copy of the current selections.
func (s *SelectionState) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Restore replaces all selections with the given snapshot.
func (s *SelectionState) Restore(snap map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string, len(snap))
	for k, v := range snap {
		s.values[k] = v
	}
}

// Probe saves the live state, replaces it with exactly the probe
// selections, runs fn, and restores the original state on every exit path.
// Nested and concurrent probes serialize on the probe lock.
func (s *SelectionState) Probe(probe map[string]string, fn func()) {
	s.probeMu.Lock()
	defer s.probeMu.Unlock()

	saved := s.Snapshot()
	defer s.Restore(saved)

	s.Restore(probe)
	fn()
}
