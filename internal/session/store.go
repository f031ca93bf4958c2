package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sakshamsingh/shop-invoice/internal/obs"
)

// ErrNotFound indicates the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store owns all live sessions. Every mutation runs serialized under the
// store lock, so state transitions are discrete and never interleave.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewStore constructs a Store with the given idle TTL.
func NewStore(ttl time.Duration, logger zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create registers a fresh session and returns its snapshot.
func (st *Store) Create() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := uuid.NewString()
	state := newState(id, st.now())
	state.Recompute()
	st.sessions[id] = state
	return state.Snapshot()
}

// Snapshot returns a read-only copy of the session.
func (st *Store) Snapshot(id string) (Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	state, err := st.live(id)
	if err != nil {
		return Snapshot{}, err
	}
	return state.Snapshot(), nil
}

// Update applies fn to the session under the store lock, then recomputes the
// totals and bumps the activity timestamp. fn returning an error leaves the
// recompute skipped but any partial mutation applied, matching the
// all-or-nothing shape of the supported operations.
func (st *Store) Update(id string, fn func(*State) error) (Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	state, err := st.live(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := fn(state); err != nil {
		return Snapshot{}, err
	}
	state.Recompute()
	state.UpdatedAt = st.now()
	if obs.BillRecomputeTotal != nil {
		obs.BillRecomputeTotal.Inc()
	}
	return state.Snapshot(), nil
}

// Delete removes the session entirely.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) live(id string) (*State, error) {
	state, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if st.now().Sub(state.UpdatedAt) > st.ttl {
		delete(st.sessions, id)
		return nil, ErrNotFound
	}
	return state, nil
}

// Sweep evicts sessions idle past the TTL and reports how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	removed := 0
	for id, state := range st.sessions {
		if now.Sub(state.UpdatedAt) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions on the given interval until ctx ends.
func (st *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := st.Sweep(); removed > 0 {
					st.logger.Debug().Int("removed", removed).Msg("expired sessions swept")
				}
			}
		}
	}()
}
