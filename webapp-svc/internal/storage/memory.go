package storage

import (
	"context"
	"sync"
	"time"

	"beerchek/webapp-svc/internal/domain"
)

type memoryEntry struct {
	state     domain.UiState
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process. It is used when no Redis
// address is configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time

	lastSweep time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Load(ctx context.Context, id string) (domain.UiState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, id string, state domain.UiState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, state)
	return nil
}

func (s *MemorySessionStore) Update(ctx context.Context, id string, fn func(domain.UiState) (domain.UiState, error)) (domain.UiState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.get(id))
	if err != nil {
		return domain.UiState{}, err
	}
	s.put(id, next)
	return next, nil
}

func (s *MemorySessionStore) get(id string) domain.UiState {
	entry, ok := s.sessions[id]
	if !ok {
		return domain.UiState{}
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return domain.UiState{}
	}
	return entry.state
}

func (s *MemorySessionStore) put(id string, state domain.UiState) {
	now := s.now()
	s.sessions[id] = memoryEntry{state: state, expiresAt: now.Add(s.ttl)}
	s.sweep(now)
}

// sweep drops expired sessions that are never read again. It runs at most
// once per TTL.
func (s *MemorySessionStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Len reports how many sessions are held, expired ones not yet swept included.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
