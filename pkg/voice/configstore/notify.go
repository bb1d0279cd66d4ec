package configstore

import (
	"context"
	"sync"
)

// Compile-time interface check.
var _ Store = (*NotifyingStore)(nil)

// ChangeFunc is called after a binding has been created, replaced, or
// removed. agentID identifies the affected agent. Callbacks run synchronously
// on the mutating goroutine and should return quickly.
type ChangeFunc func(agentID string)

// NotifyingStore wraps a [Store] and invokes registered callbacks after every
// successful mutation. It exists for hosts whose UI or session layer must
// react when an agent's voice changes; the assignment layer itself never
// needs it.
type NotifyingStore struct {
	inner Store

	mu        sync.RWMutex
	callbacks []ChangeFunc
}

// NewNotifyingStore wraps the given store.
func NewNotifyingStore(inner Store) *NotifyingStore {
	return &NotifyingStore{inner: inner}
}

// OnChange registers a callback fired after each successful Set or Remove.
// Callbacks cannot be unregistered; register once at wiring time.
func (s *NotifyingStore) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Get implements [Store.Get].
func (s *NotifyingStore) Get(ctx context.Context, agentID string) (AgentVoice, error) {
	return s.inner.Get(ctx, agentID)
}

// Set implements [Store.Set]. Callbacks fire only when the inner Set succeeds.
func (s *NotifyingStore) Set(ctx context.Context, agentID string, binding AgentVoice) error {
	if err := s.inner.Set(ctx, agentID, binding); err != nil {
		return err
	}
	s.notify(agentID)
	return nil
}

// Remove implements [Store.Remove]. Callbacks fire only when the inner Remove
// succeeds.
func (s *NotifyingStore) Remove(ctx context.Context, agentID string) error {
	if err := s.inner.Remove(ctx, agentID); err != nil {
		return err
	}
	s.notify(agentID)
	return nil
}

// List implements [Store.List].
func (s *NotifyingStore) List(ctx context.Context) (map[string]AgentVoice, error) {
	return s.inner.List(ctx)
}

func (s *NotifyingStore) notify(agentID string) {
	s.mu.RLock()
	callbacks := s.callbacks
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn(agentID)
	}
}
