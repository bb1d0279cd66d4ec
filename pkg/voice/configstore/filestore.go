package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"
)

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore persists bindings as a single JSON object in a local file,
// suitable for a small number of agents.
//
// The whole mapping is loaded once at construction and rewritten to disk
// synchronously after every mutation (write-through, no batching): when Set
// or Remove returns, the file already matches the in-memory state.
// Thread-safe for concurrent use.
type FileStore struct {
	mu       sync.Mutex
	path     string
	bindings map[string]AgentVoice
}

// NewFileStore creates a FileStore backed by the given path. A missing file
// is treated as an empty mapping; it is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:     path,
		bindings: make(map[string]AgentVoice),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("configstore: read %q: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.bindings); err != nil {
			return nil, fmt.Errorf("configstore: parse %q: %w", path, err)
		}
	}
	return fs, nil
}

// Get implements [Store.Get].
func (s *FileStore) Get(ctx context.Context, agentID string) (AgentVoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bindings[agentID]
	if !ok {
		return AgentVoice{}, ErrNotFound
	}
	return b, nil
}

// Set implements [Store.Set]. The file is rewritten before Set returns.
func (s *FileStore) Set(ctx context.Context, agentID string, binding AgentVoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.bindings[agentID]
	s.bindings[agentID] = binding
	if err := s.flushLocked(); err != nil {
		// Roll back so memory and disk stay consistent.
		if had {
			s.bindings[agentID] = prev
		} else {
			delete(s.bindings, agentID)
		}
		return err
	}
	return nil
}

// Remove implements [Store.Remove]. The file is rewritten before Remove
// returns. Removing an absent binding does not touch the file.
func (s *FileStore) Remove(ctx context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.bindings[agentID]
	if !had {
		return nil
	}
	delete(s.bindings, agentID)
	if err := s.flushLocked(); err != nil {
		s.bindings[agentID] = prev
		return err
	}
	return nil
}

// List implements [Store.List].
func (s *FileStore) List(ctx context.Context) (map[string]AgentVoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.bindings), nil
}

// flushLocked rewrites the whole mapping to disk. Caller must hold s.mu.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.bindings, "", "  ")
	if err != nil {
		return fmt.Errorf("configstore: marshal: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("configstore: write %q: %w", s.path, err)
	}
	return nil
}
