package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store implementation. Transcripts live for the
// lifetime of the process; suitable for tests and single-instance deployments
// that can tolerate transcript loss on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string][]string
}

// NewMemoryStore creates an empty in-memory transcript store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{transcripts: make(map[string][]string)}
}

func (s *MemoryStore) Transcript(_ context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.transcripts[sessionID]
	out := make([]string, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, entries ...string) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[sessionID] = append(s.transcripts[sessionID], entries...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transcripts, sessionID)
	return nil
}
