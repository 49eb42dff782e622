// internal/store/memory.go
//
// In-memory session store. A session binds one player and one game mode to
// the game.Controller that plays it.
//
// Characteristics:
//   - Sessions are keyed by "<playerID>|<mode>" in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex; holders of a session must lock it
//     around every controller call and refresh LastSeen.
//   - Sweep drops sessions idle since a cutoff.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordle-engine/internal/game"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("not found")

// Session is one player's game in one mode.
type Session struct {
	sync.Mutex
	PlayerID string
	Mode     string
	Ctrl     *game.Controller
	LastSeen time.Time
}

// Key returns the store key of the session.
func (s *Session) Key() string { return Key(s.PlayerID, s.Mode) }

// Key builds a session key.
func Key(playerID, mode string) string { return playerID + "|" + mode }

// Store defines the lookup interface for sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by key, ErrNotFound if missing.
	Get(ctx context.Context, key string) (*Session, error)

	// GetOrCreate returns the session for key, calling create and saving the
	// result when there is none.
	GetOrCreate(ctx context.Context, key string, create func() *Session) (*Session, error)

	// Len returns the number of sessions.
	Len() int

	// Sweep removes sessions last seen before cutoff and reports how many
	// went. Sessions locked by a caller are in use and kept.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.Key()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Key()] = s
	return nil
}

// Get looks up a session by key.
func (m *memory) Get(_ context.Context, key string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// GetOrCreate creates the session under the write lock so two concurrent
// callers end up sharing one.
func (m *memory) GetOrCreate(_ context.Context, key string, create func() *Session) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}
	s := create()
	m.sessions[key] = s
	return s, nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.sessions {
		if !s.TryLock() {
			continue
		}
		idle := s.LastSeen.Before(cutoff)
		s.Unlock()
		if idle {
			delete(m.sessions, k)
			n++
		}
	}
	return n
}
