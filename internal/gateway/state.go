// internal/gateway/state.go
//
// Poll-cycle observability state.  Correctness never depends on it; the
// status endpoint and the summary log are the only consumers.
package gateway

import (
	"sync"
	"time"
)

// State tracks the outcome of poll cycles.  Safe for concurrent use.
type State struct {
	mu          sync.RWMutex
	lastSuccess time.Time
	lastError   string
	lastErrorAt time.Time
	cycles      uint64
	failures    uint64
}

// RecordSuccess stamps a successful cycle.
func (s *State) RecordSuccess(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSuccess = at
	s.cycles++
}

// RecordFailure stamps a failed cycle; the previous configuration stays
// live, so only the error text and time are kept.
func (s *State) RecordFailure(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
	s.lastErrorAt = at
	s.cycles++
	s.failures++
}

// Snapshot is a point-in-time copy for the status endpoint.
type Snapshot struct {
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitzero"`
	Cycles      uint64    `json:"cycles"`
	Failures    uint64    `json:"failures"`
}

// Snapshot returns a consistent copy of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		LastSuccess: s.lastSuccess,
		LastError:   s.lastError,
		LastErrorAt: s.lastErrorAt,
		Cycles:      s.cycles,
		Failures:    s.failures,
	}
}
