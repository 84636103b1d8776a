// Package memory holds in-process repositories used for local runs and end-to-end tests.
package memory

import (
	"context"
	"sync"

	"rsvptracker/internal/domain"
)

type state struct {
	mu          sync.Mutex
	events      map[int64]domain.Event
	rsvps       map[int64]domain.RSVP
	nextEventID int64
	nextRSVPID  int64
}

func newState() *state {
	return &state{
		events: make(map[int64]domain.Event),
		rsvps:  make(map[int64]domain.RSVP),
	}
}

// clone copies the maps; callers must hold s.mu.
func (s *state) clone() *state {
	c := newState()
	for id, e := range s.events {
		c.events[id] = e
	}
	for id, r := range s.rsvps {
		c.rsvps[id] = r
	}
	c.nextEventID = s.nextEventID
	c.nextRSVPID = s.nextRSVPID
	return c
}

// Store is a domain.Store kept in memory. Transactions work on a private copy that
// replaces the shared state on commit, so a failed transaction leaves no trace.
type Store struct {
	st   *state
	inTx bool
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Events() domain.EventRepository { return &eventRepo{st: s.st, locked: s.inTx} }

func (s *Store) RSVPs() domain.RSVPRepository { return &rsvpRepo{st: s.st, locked: s.inTx} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	working := s.st.clone()
	if err := fn(&Store{st: working, inTx: true}); err != nil {
		return err
	}
	s.st.events = working.events
	s.st.rsvps = working.rsvps
	s.st.nextEventID = working.nextEventID
	s.st.nextRSVPID = working.nextRSVPID
	return nil
}

// guard locks the state unless the repository already runs inside a transaction,
// where the working copy is private to one goroutine.
func guard(st *state, locked bool) func() {
	if locked {
		return func() {}
	}
	st.mu.Lock()
	return st.mu.Unlock
}
