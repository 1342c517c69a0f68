// Package session keeps the active detection of each browser session in memory.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"emotionserver/internal/dto"
)

type entry struct {
	state *dto.SessionState
	seen  time.Time
}

// Store maps session ids to their current state.
type Store struct {
	mu     sync.Mutex
	states map[string]*entry
	now    func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{states: make(map[string]*entry), now: time.Now}
}

// Begin clears the session's emotion, quote and song and returns the
// generation a later Commit must present.
func (s *Store) Begin(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := uint64(1)
	if prev, ok := s.states[id]; ok {
		next = prev.state.Generation + 1
	}
	s.states[id] = &entry{state: &dto.SessionState{Generation: next}, seen: s.now()}
	return next
}

// Commit replaces the whole state in one step if gen is still the latest
// generation. A submission that was overtaken by a newer one is dropped.
func (s *Store) Commit(id string, gen uint64, state dto.SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.states[id]
	if !ok || current.state.Generation != gen {
		return false
	}
	state.Generation = gen
	current.state = &state
	current.seen = s.now()
	return true
}

// Get returns a copy of the session's state. Unknown sessions are empty.
func (s *Store) Get(id string) dto.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[id]
	if !ok {
		return dto.SessionState{}
	}
	e.seen = s.now()
	out := *e.state
	if e.state.Preview != nil {
		out.Preview = append([]byte(nil), e.state.Preview...)
	}
	return out
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// Sweep forgets every session not touched within ttl and returns how many
// were removed.
func (s *Store) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, e := range s.states {
		if e.seen.Before(cutoff) {
			delete(s.states, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of known sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Tag returns a short, stable fingerprint of a session id for log lines.
// The id itself is a credential and never goes to the logs.
func Tag(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:4])
}
