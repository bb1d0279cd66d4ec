package configstore

import (
	"context"
	"maps"
	"sync"
)

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// Bindings do not survive the process; suitable for tests and single-run use.
type MemStore struct {
	mu       sync.RWMutex
	bindings map[string]AgentVoice
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		bindings: make(map[string]AgentVoice),
	}
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, agentID string) (AgentVoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bindings[agentID]
	if !ok {
		return AgentVoice{}, ErrNotFound
	}
	return b, nil
}

// Set implements [Store.Set].
func (s *MemStore) Set(ctx context.Context, agentID string, binding AgentVoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bindings == nil {
		s.bindings = make(map[string]AgentVoice)
	}
	s.bindings[agentID] = binding
	return nil
}

// Remove implements [Store.Remove].
func (s *MemStore) Remove(ctx context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bindings, agentID)
	return nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) (map[string]AgentVoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.bindings), nil
}
